package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-be/internal/account"
	"marketplace-be/internal/cart"
	"marketplace-be/internal/catalog"
	"marketplace-be/internal/config"
	"marketplace-be/internal/db"
	"marketplace-be/internal/httpserver"
	"marketplace-be/internal/logger"
	"marketplace-be/internal/order"
	"marketplace-be/internal/shop"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	catalogRepo := catalog.NewRepository(database)
	shopRepo := shop.NewRepository(database)

	accountRepo := account.NewRepository(database)
	accountSvc := account.NewService(accountRepo, shopRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, catalogRepo)

	orderRepo := order.NewRepository(database, catalogRepo)
	orderSvc := order.NewService(orderRepo, cartSvc)

	scheduler := order.NewScheduler(orderSvc, orderRepo, order.SchedulerConfig{
		Interval:        cfg.SchedulerInterval,
		PendingMaxAge:   cfg.PendingMaxAge,
		PackingMaxAge:   cfg.PackingMaxAge,
		ShippingMaxAge:  cfg.ShippingMaxAge,
		DeliveredMaxAge: cfg.DeliveredMaxAge,
	})
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	router := httpserver.NewRouter(httpserver.Handlers{
		Auth:  httpserver.NewAuthHandler(accountSvc),
		Cart:  httpserver.NewCartHandler(cartSvc),
		Order: httpserver.NewOrderHandler(orderSvc, scheduler),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		logger.L().Info("🚀 server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("shutdown failed", zap.Error(err))
	}
}
