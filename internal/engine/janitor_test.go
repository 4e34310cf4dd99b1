package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savannahworks/uliza/internal/logging"
	"github.com/savannahworks/uliza/pkg/adapters/memory"
)

func TestJanitor_SweepPurgesExpired(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.WithGrace(0))

	_, _, err := store.LoadOrCreate(ctx, "j-live", "+254712000001", "*1#", "home", time.Minute)
	require.NoError(t, err)
	_, _, err = store.LoadOrCreate(ctx, "j-dead-1", "+254712000002", "*1#", "home", -time.Minute)
	require.NoError(t, err)
	_, _, err = store.LoadOrCreate(ctx, "j-dead-2", "+254712000003", "*1#", "home", -time.Minute)
	require.NoError(t, err)

	j := NewJanitor(store, time.Second, time.Second, logging.NewNop())
	purged, err := j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, purged)

	// The live session survives; a second sweep finds nothing.
	purged, err = j.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, purged)
}

func TestJanitor_StartStop(t *testing.T) {
	store := memory.NewStore()
	j := NewJanitor(store, time.Hour, time.Second, logging.NewNop())

	require.NoError(t, j.Start())
	j.Stop()

	// Stop on a never-started janitor is a no-op.
	(&Janitor{}).Stop()
}
