package ports

import (
	"context"
	"testing"
	"time"

	"github.com/savannahworks/uliza/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a
// SessionStore implementation adheres to the defined interface
// contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-session-" + time.Now().Format("20060102150405.000")
	const (
		caller  = "+254712000111"
		service = "*384*10#"
		root    = "home"
		ttl     = time.Minute
	)

	t.Run("Create and Load", func(t *testing.T) {
		s, created, err := store.LoadOrCreate(ctx, sessionID, caller, service, root, ttl)
		require.NoError(t, err)
		require.True(t, created, "first caller should create")
		assert.Equal(t, root, s.CurrentNode)
		assert.True(t, s.Active)
		assert.Empty(t, s.MenuStack)

		again, created, err := store.LoadOrCreate(ctx, sessionID, caller, service, root, ttl)
		require.NoError(t, err)
		assert.False(t, created, "second caller should observe the first's session")
		assert.Equal(t, s.CurrentNode, again.CurrentNode)
	})

	t.Run("Save and Reload", func(t *testing.T) {
		s, _, err := store.LoadOrCreate(ctx, sessionID, caller, service, root, ttl)
		require.NoError(t, err)

		s.Push("wildlife")
		s.ContextData["county"] = "Laikipia"
		s.Steps = 1
		require.NoError(t, store.Save(ctx, s))

		loaded, created, err := store.LoadOrCreate(ctx, sessionID, caller, service, root, ttl)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "wildlife", loaded.CurrentNode)
		assert.Equal(t, []string{root}, loaded.MenuStack)
		assert.Equal(t, "Laikipia", loaded.ContextData["county"])
		assert.Equal(t, 1, loaded.Steps)
	})

	t.Run("Version Conflict", func(t *testing.T) {
		a, _, err := store.LoadOrCreate(ctx, sessionID, caller, service, root, ttl)
		require.NoError(t, err)
		b := a.Clone()

		a.Push("carbon")
		require.NoError(t, store.Save(ctx, a))

		b.Push("market")
		err = store.Save(ctx, b)
		assert.ErrorIs(t, err, domain.ErrVersionConflict, "stale writer must not silently drop the winner's keypress")
	})

	t.Run("Expire Is Idempotent", func(t *testing.T) {
		require.NoError(t, store.Expire(ctx, sessionID))
		require.NoError(t, store.Expire(ctx, sessionID))
		require.NoError(t, store.Expire(ctx, "never-existed-"+sessionID))

		// An inactive record is replaced by a fresh dialog.
		s, created, err := store.LoadOrCreate(ctx, sessionID, caller, service, root, ttl)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, root, s.CurrentNode)
	})

	t.Run("Service Code Rebind Starts Fresh", func(t *testing.T) {
		s, _, err := store.LoadOrCreate(ctx, sessionID, caller, service, root, ttl)
		require.NoError(t, err)
		s.Push("wildlife")
		require.NoError(t, store.Save(ctx, s))

		fresh, created, err := store.LoadOrCreate(ctx, sessionID, caller, "*384*99#", "start", ttl)
		require.NoError(t, err)
		assert.True(t, created, "a different dialed code under the same gateway session starts a new dialog")
		assert.Equal(t, "start", fresh.CurrentNode)
	})

	t.Run("Purge Expired", func(t *testing.T) {
		expiredID := sessionID + "-stale"
		_, _, err := store.LoadOrCreate(ctx, expiredID, caller, service, root, -time.Second)
		require.NoError(t, err)

		liveID := sessionID + "-live"
		_, _, err = store.LoadOrCreate(ctx, liveID, caller, service, root, time.Hour)
		require.NoError(t, err)

		n, err := store.PurgeExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1)

		// The stale record is gone: a new request starts at root.
		s, created, err := store.LoadOrCreate(ctx, expiredID, caller, service, root, ttl)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, root, s.CurrentNode)

		// The live one survived.
		_, created, err = store.LoadOrCreate(ctx, liveID, caller, service, root, ttl)
		require.NoError(t, err)
		assert.False(t, created)
	})
}
