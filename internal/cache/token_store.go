package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// TokenStore remembers single-use token ids until they would have expired anyway.
type TokenStore interface {
	// MarkUsed records id and reports whether this was its first use.
	MarkUsed(ctx context.Context, id string, ttl time.Duration) (bool, error)
	// Release forgets id so the token can be used again.
	Release(ctx context.Context, id string) error
}

// RedisTokenStore keeps used token ids in Redis so every instance sees them.
type RedisTokenStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisTokenStore(rdb *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{rdb: rdb, prefix: "used-token:"}
}

func (s *RedisTokenStore) MarkUsed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	first, err := s.rdb.SetNX(ctx, s.prefix+id, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record token use: %w", err)
	}
	return first, nil
}

func (s *RedisTokenStore) Release(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to release token: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps used token ids in process memory.
type MemoryTokenStore struct {
	c *gocache.Cache
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{c: gocache.New(10*time.Minute, 5*time.Minute)}
}

func (s *MemoryTokenStore) MarkUsed(_ context.Context, id string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	// Add fails when the key is present and unexpired.
	if err := s.c.Add(id, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *MemoryTokenStore) Release(_ context.Context, id string) error {
	s.c.Delete(id)
	return nil
}

// NewTokenStore picks the Redis store when a client is available.
func NewTokenStore(rdb *redis.Client) TokenStore {
	if rdb != nil {
		return NewRedisTokenStore(rdb)
	}
	return NewMemoryTokenStore()
}
