package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"garden/internal/cache"
	"garden/internal/config"
	"garden/internal/logger"
	"garden/internal/server"
	"garden/internal/services"
	"garden/pkg/rabbitmq"
)

const notificationQueue = "garden.notifications"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg.Env)
	slog.SetDefault(appLogger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Store ---
	store, err := server.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			appLogger.Error("Error closing store", slog.Any("error", err))
		}
	}()

	// --- Redis (optional) ---
	rdb := cache.InitRedis(ctx, cfg.RedisURL, appLogger)
	if rdb != nil {
		defer rdb.Close()
	}

	deps := server.Deps{
		Config: cfg,
		Logger: appLogger,
		Users:  store.Users,
		Posts:  store.Posts,
		Redis:  rdb,
	}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, appLogger)
		if err != nil {
			appLogger.Warn("RabbitMQ unavailable, events disabled", slog.Any("error", err))
		} else {
			defer mqClient.Close()
			deps.Publisher = mqClient

			if err := mqClient.Consume(notificationQueue, "#", services.NotificationHandler(appLogger)); err != nil {
				appLogger.Error("Failed to start RabbitMQ consumer", slog.Any("error", err))
			}
		}
	}

	// --- Metrics ---
	if cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		deps.Registry = reg
	}

	app := server.New(deps)

	// --- Start HTTP Server ---
	go func() {
		appLogger.Info("Starting server", slog.String("address", cfg.Port))
		if err := app.Listen(cfg.Port); err != nil {
			appLogger.Error("Server failed", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Error during Fiber shutdown", slog.Any("error", err))
	}
	appLogger.Info("Server gracefully stopped")
}
