// Package server assembles the fiber application out of configured dependencies.
package server

import (
	"log/slog"
	"time"

	"garden/internal/cache"
	"garden/internal/config"
	"garden/internal/handlers"
	"garden/internal/logger"
	"garden/internal/metrics"
	"garden/internal/middleware"
	"garden/internal/repositories"
	"garden/internal/security"
	"garden/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the external resources the application runs on. Redis, Publisher and
// Registry are optional.
type Deps struct {
	Config    *config.Config
	Logger    *slog.Logger
	Users     repositories.UserRepository
	Posts     repositories.PostRepository
	Redis     *redis.Client
	Publisher services.EventPublisher
	Registry  *prometheus.Registry
}

// New builds the fiber app with every route mounted under /api.
func New(deps Deps) *fiber.App {
	cfg := deps.Config
	log := deps.Logger

	m := metrics.New(registerer(deps.Registry))
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	accessTokens := security.NewTokenManager(cfg.AccessSecret, cfg.AccessTTL)

	authService := services.NewAuthService(services.AuthDeps{
		Users:         deps.Users,
		Hasher:        hasher,
		AccessTokens:  accessTokens,
		RefreshTokens: security.NewTokenManager(cfg.RefreshSecret, cfg.RefreshTTL),
		ResetTokens:   security.NewTokenManager(cfg.AccessSecret, cfg.ResetTTL),
		UsedTokens:    cache.NewTokenStore(deps.Redis),
		Publisher:     deps.Publisher,
		ResetUILink:   cfg.ResetUILink,
		Logger:        log,
		Metrics:       m,
	})
	userService := services.NewUserService(deps.Users, deps.Posts, hasher, log)
	postService := services.NewPostService(deps.Posts, deps.Publisher, log, m)

	validate := handlers.NewValidator()
	authHandler := handlers.NewAuthHandler(authService, validate, cfg.IsProduction())
	userHandler := handlers.NewUserHandler(userService, validate)
	postHandler := handlers.NewPostHandler(postService, validate)

	app := fiber.New(fiber.Config{
		AppName:      "garden",
		ErrorHandler: handlers.ErrorHandler(log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(logger.Middleware(log))

	if deps.Registry != nil {
		prom := fiberprometheus.NewWithRegistry(deps.Registry, "garden", "http", "", nil)
		app.Use(prom.Middleware)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.StoreDriver,
			"redis":  deps.Redis != nil,
			"events": deps.Publisher != nil,
		})
	})

	guards := handlers.Guards{
		Auth:  middleware.AuthRequired(accessTokens),
		Admin: middleware.AdminOnly(),
		Login: middleware.RateLimit(deps.Redis, log, "login", cfg.LoginRateLimit, time.Minute),
	}

	api := app.Group("/api")
	authHandler.RegisterRoutes(api, guards)
	userHandler.RegisterRoutes(api, guards)
	postHandler.RegisterRoutes(api, guards)

	return app
}

// registerer avoids handing metrics.New a typed nil.
func registerer(reg *prometheus.Registry) prometheus.Registerer {
	if reg == nil {
		return nil
	}
	return reg
}
