package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savannahworks/uliza/pkg/adapters/redis"
	"github.com/savannahworks/uliza/pkg/ports"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.Store {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewFromClient(client, opts...)
}

func TestRedisStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, newTestStore(t))
}

func TestRedisStore_PurgeRechecksExtendedSession(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	clock := func() time.Time { return now }

	store := newTestStore(t, redis.WithClock(clock))

	s, _, err := store.LoadOrCreate(ctx, "rd-1", "+254700000002", "*384*11#", "home", time.Minute)
	require.NoError(t, err)

	// A concurrent request extends the session between the sweep's
	// candidate listing and its delete: the re-check must keep it.
	now = now.Add(2 * time.Minute)
	s.Touch(now, time.Minute)
	require.NoError(t, store.Save(ctx, s))

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, created, err := store.LoadOrCreate(ctx, "rd-1", "+254700000002", "*384*11#", "home", time.Minute)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRedisStore_ConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	a, createdA, err := store.LoadOrCreate(ctx, "rd-2", "+254700000003", "*384*12#", "home", time.Minute)
	require.NoError(t, err)
	b, createdB, err := store.LoadOrCreate(ctx, "rd-2", "+254700000003", "*384*12#", "home", time.Minute)
	require.NoError(t, err)

	assert.True(t, createdA)
	assert.False(t, createdB)
	assert.Equal(t, a.Version, b.Version)
}
