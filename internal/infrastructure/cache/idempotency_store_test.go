package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) map[string]IdempotencyStore {
	t.Helper()

	mem := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = mem.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]IdempotencyStore{
		"memory": mem,
		"redis":  NewRedisIdempotencyStore(client, ""),
	}
}

func TestIdempotencyStore_ReserveCompleteRelease(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			existing, reserved, err := store.Reserve(ctx, "key-1", time.Hour)
			require.NoError(t, err)
			assert.True(t, reserved)
			assert.Empty(t, existing)

			existing, reserved, err = store.Reserve(ctx, "key-1", time.Hour)
			require.NoError(t, err)
			assert.False(t, reserved)
			assert.Equal(t, PendingValue, existing)

			require.NoError(t, store.Complete(ctx, "key-1", "sale-123", time.Hour))

			existing, reserved, err = store.Reserve(ctx, "key-1", time.Hour)
			require.NoError(t, err)
			assert.False(t, reserved)
			assert.Equal(t, "sale-123", existing)

			require.NoError(t, store.Release(ctx, "key-1"))

			_, reserved, err = store.Reserve(ctx, "key-1", time.Hour)
			require.NoError(t, err)
			assert.True(t, reserved)
		})
	}
}

func TestIdempotencyStore_ConcurrentReserve(t *testing.T) {
	ctx := context.Background()

	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			var wins int32
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, reserved, err := store.Reserve(ctx, "contended", time.Minute)
					if err == nil && reserved {
						atomic.AddInt32(&wins, 1)
					}
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), wins)
		})
	}
}

func TestInMemoryIdempotencyStore_Expiration(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, reserved, err := store.Reserve(ctx, "short", 10*time.Millisecond)
	require.NoError(t, err)
	require.True(t, reserved)

	time.Sleep(20 * time.Millisecond)

	_, reserved, err = store.Reserve(ctx, "short", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved, "expired key should be claimable again")
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	_, _, _ = store.Reserve(ctx, "a", time.Millisecond)
	_, _, _ = store.Reserve(ctx, "b", time.Hour)
	time.Sleep(5 * time.Millisecond)

	store.cleanup()

	assert.Equal(t, 1, store.Size())
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestRedisIdempotencyStore_KeyPrefixAndTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	store := NewRedisIdempotencyStore(client, "sales:idem:")
	ctx := context.Background()

	require.NoError(t, store.Complete(ctx, "k", "v", time.Minute))

	got, err := mr.Get("sales:idem:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
	assert.Equal(t, time.Minute, mr.TTL("sales:idem:k"))
}
