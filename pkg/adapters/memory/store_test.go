package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savannahworks/uliza/pkg/adapters/memory"
	"github.com/savannahworks/uliza/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunSessionStoreContract(t, memory.NewStore())
}

func TestMemoryStore_SlidingExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := memory.NewStore(memory.WithClock(clock))

	s, created, err := store.LoadOrCreate(ctx, "at-1", "+254700000001", "*384*10#", "home", 90*time.Second)
	require.NoError(t, err)
	require.True(t, created)

	// Activity at t+60s slides the deadline past the original expiry.
	now = now.Add(60 * time.Second)
	s.Touch(now, 90*time.Second)
	s.Steps++
	require.NoError(t, store.Save(ctx, s))

	// t+120s: the original deadline has passed but the slid one has not.
	now = now.Add(60 * time.Second)
	_, created, err = store.LoadOrCreate(ctx, "at-1", "+254700000001", "*384*10#", "home", 90*time.Second)
	require.NoError(t, err)
	assert.False(t, created, "slid session must still be live")

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "janitor must not purge a session that was extended")

	// t+300s: well past the slid deadline.
	now = now.Add(180 * time.Second)
	n, err = store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
