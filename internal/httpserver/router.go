package httpserver

import (
	"net/http"

	"marketplace-be/internal/metrics"
	"marketplace-be/internal/middleware"
	"marketplace-be/internal/order"
	"marketplace-be/internal/utils"

	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	Auth  *AuthHandler
	Cart  *CartHandler
	Order *OrderHandler
}

// NewRouter mounts the full API surface. The role split mirrors the route
// prefixes: buyer endpoints only need an actor, seller and admin groups need
// the matching role; per-order ownership is checked in the order service.
func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireActor)
			r.Get("/", h.Cart.Get)
			r.Get("/total", h.Cart.Total)
			r.Post("/items", h.Cart.AddItem)
			r.Post("/items/bulk", h.Cart.BulkAdd)
			r.Patch("/items/{variantID}", h.Cart.SetQuantity)
			r.Delete("/items/{variantID}", h.Cart.RemoveItem)
			r.Delete("/", h.Cart.Clear)
			r.Post("/refresh", h.Cart.Refresh)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Route("/buyer", func(r chi.Router) {
				r.Use(middleware.RequireActor)
				r.Get("/", h.Order.ListForBuyer)
				r.Post("/checkout", h.Order.Checkout)
				r.Get("/{id}", h.Order.GetDetail)
				r.Patch("/{id}/confirm", h.Order.Transition(order.ActionConfirm))
				r.Patch("/{id}/cancel", h.Order.Transition(order.ActionCancel))
				r.Post("/{id}/report", h.Order.Report)
			})

			r.Route("/seller", func(r chi.Router) {
				r.Use(middleware.RequireRole(utils.RoleSeller))
				r.Get("/", h.Order.ListForSeller)
				r.Get("/{id}", h.Order.GetDetail)
				r.Patch("/{id}/packing", h.Order.Transition(order.ActionPack))
				r.Patch("/{id}/shipping", h.Order.Transition(order.ActionShip))
				r.Patch("/{id}/delivered", h.Order.Transition(order.ActionDeliver))
				r.Patch("/{id}/cancel", h.Order.Transition(order.ActionCancel))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(utils.RoleAdmin))
				r.Get("/", h.Order.ListForAdmin)
				r.Get("/{id}", h.Order.GetDetail)
				r.Patch("/{id}/complete", h.Order.Transition(order.ActionComplete))
				r.Patch("/{id}/cancel", h.Order.Transition(order.ActionCancel))
				r.Post("/{id}/review-report", h.Order.ReviewReport)
				r.Post("/auto-transition", h.Order.RunAutoTransition)
			})
		})

		r.With(middleware.RequireRole(utils.RoleAdmin)).
			Get("/admin/status", StatusHandler)
	})

	return r
}

// StatusHandler exposes the engine counters for operators.
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "engine status", map[string]uint64{
		"orders_created":         metrics.OrdersCreated.Load(),
		"transitions_applied":    metrics.TransitionsApplied.Load(),
		"transitions_rejected":   metrics.TransitionsRejected.Load(),
		"stock_rollbacks":        metrics.StockRollbacks.Load(),
		"auto_transition_runs":   metrics.AutoTransitionRuns.Load(),
		"auto_transition_ok":     metrics.AutoTransitionOK.Load(),
		"auto_transition_failed": metrics.AutoTransitionFailed.Load(),
	})
}
