package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/retailpos/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_Blacklist(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Blacklist(ctx, "test-jti-1", time.Hour))

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "test-jti-1")
	require.NoError(t, err)
	assert.True(t, isBlacklisted)

	isBlacklisted, err = blacklist.IsBlacklisted(ctx, "test-jti-2")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_Expiration(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Blacklist(ctx, "test-jti-expire", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "test-jti-expire")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.Blacklist(ctx, "already-expired", 0))

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestRedisTokenBlacklist(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	blacklist := auth.NewRedisTokenBlacklist(client)
	ctx := context.Background()

	require.NoError(t, blacklist.Blacklist(ctx, "jti-1", time.Minute))
	assert.True(t, mr.Exists("token:blacklist:jti:jti-1"))

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, isBlacklisted)

	mr.FastForward(2 * time.Minute)

	isBlacklisted, err = blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestRedisTokenBlacklist_ConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.SetError("boom")

	blacklist := auth.NewRedisTokenBlacklist(client)

	_, err := blacklist.IsBlacklisted(context.Background(), "jti")
	require.Error(t, err)
	assert.False(t, errors.Is(err, redis.Nil))
}
