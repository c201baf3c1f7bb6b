package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"garden/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit counts one hit for id on resource and reports whether it is within limit.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// EXPIRE NX in the same transaction so a counter never outlives its window.
	pipe := rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= int64(limit), nil
}

func tooManyRequests() error {
	return models.NewAppError(http.StatusTooManyRequests, "Too many requests, please try again later")
}

// RateLimit allows limit requests per window per client IP for the named resource. It
// counts in Redis when rdb is set, failing open on Redis errors, and in memory otherwise.
func RateLimit(rdb *redis.Client, log *slog.Logger, resource string, limit int, window time.Duration) fiber.Handler {
	if rdb == nil {
		return limiter.New(limiter.Config{
			Max:        limit,
			Expiration: window,
			KeyGenerator: func(c *fiber.Ctx) string {
				return resource + ":" + c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return tooManyRequests()
			},
		})
	}

	return func(c *fiber.Ctx) error {
		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, c.IP(), limit, window)
		if err != nil {
			log.Warn("rate limit check failed, allowing request",
				slog.String("resource", resource),
				slog.Any("error", err))
			return c.Next()
		}
		if !allowed {
			return tooManyRequests()
		}
		return c.Next()
	}
}
