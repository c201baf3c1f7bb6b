package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitRedis(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, InitRedis(ctx, "", discardLogger()))
	assert.Nil(t, InitRedis(ctx, "redis://%%bad", discardLogger()))

	mr := miniredis.RunT(t)
	client := InitRedis(ctx, mr.Addr(), discardLogger())
	require.NotNil(t, client)
	defer client.Close()

	client = InitRedis(ctx, "redis://"+mr.Addr()+"/0", discardLogger())
	require.NotNil(t, client)
	defer client.Close()
}

func TestRedisTokenStore_MarkUsed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := InitRedis(context.Background(), mr.Addr(), discardLogger())
	require.NotNil(t, client)
	defer client.Close()

	store := NewTokenStore(client)
	_, isRedis := store.(*RedisTokenStore)
	require.True(t, isRedis)

	ctx := context.Background()
	first, err := store.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	mr.FastForward(2 * time.Minute)
	afterExpiry, err := store.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, afterExpiry)
}

func TestRedisTokenStore_ReportsErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	client := InitRedis(context.Background(), mr.Addr(), discardLogger())
	require.NotNil(t, client)
	defer client.Close()

	mr.SetError("READONLY")
	_, err := NewRedisTokenStore(client).MarkUsed(context.Background(), "jti-1", time.Minute)
	assert.Error(t, err)
}

func TestMemoryTokenStore_MarkUsed(t *testing.T) {
	store := NewTokenStore(nil)
	_, isMemory := store.(*MemoryTokenStore)
	require.True(t, isMemory)

	ctx := context.Background()
	first, err := store.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := store.MarkUsed(ctx, "jti-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, again)

	other, err := store.MarkUsed(ctx, "jti-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, other)
}

func TestTokenStore_Release(t *testing.T) {
	mr := miniredis.RunT(t)
	client := InitRedis(context.Background(), mr.Addr(), discardLogger())
	require.NotNil(t, client)
	defer client.Close()

	stores := map[string]TokenStore{
		"redis":  NewRedisTokenStore(client),
		"memory": NewMemoryTokenStore(),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first, err := store.MarkUsed(ctx, "jti-1", time.Minute)
			require.NoError(t, err)
			require.True(t, first)

			require.NoError(t, store.Release(ctx, "jti-1"))

			again, err := store.MarkUsed(ctx, "jti-1", time.Minute)
			require.NoError(t, err)
			assert.True(t, again)

			// Releasing an unknown id is a no-op.
			assert.NoError(t, store.Release(ctx, "jti-unknown"))
		})
	}
	assert.True(t, mr.Exists("used-token:jti-1"))
}
