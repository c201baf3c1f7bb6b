// Package cache provides the Redis client and short-lived key stores.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to addr, which may be a redis:// URL or host:port. It returns nil
// when addr is empty or the server cannot be reached; callers fall back to in-process state.
func InitRedis(ctx context.Context, addr string, log *slog.Logger) *redis.Client {
	if addr == "" {
		return nil
	}

	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Warn("invalid REDIS_URL, continuing without redis", slog.Any("error", err))
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, continuing without redis", slog.Any("error", err))
		_ = client.Close()
		return nil
	}
	log.Info("redis connected", slog.String("addr", opts.Addr))
	return client
}
