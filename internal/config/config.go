package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// Auto-transition job knobs.
	SchedulerInterval time.Duration
	PendingMaxAge     time.Duration
	PackingMaxAge     time.Duration
	ShippingMaxAge    time.Duration
	DeliveredMaxAge   time.Duration
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		SchedulerInterval: durationEnv("SCHEDULER_INTERVAL_MINUTES", 15) * time.Minute,
		PendingMaxAge:     durationEnv("PENDING_MAX_AGE_HOURS", 24) * time.Hour,
		PackingMaxAge:     durationEnv("PACKING_MAX_AGE_HOURS", 72) * time.Hour,
		ShippingMaxAge:    durationEnv("SHIPPING_MAX_AGE_HOURS", 168) * time.Hour,
		DeliveredMaxAge:   durationEnv("DELIVERED_MAX_AGE_HOURS", 168) * time.Hour,
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func durationEnv(key string, fallback int64) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return time.Duration(fallback)
	}
	return time.Duration(n)
}
