package query

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLifecycle(t *testing.T) {
	t.Run("Unknown key is idle", func(t *testing.T) {
		// Arrange
		store := NewStore()

		// Act
		snap, ok := store.Lookup("missing")

		// Assert
		assert.False(t, ok)
		assert.Equal(t, StateIdle, snap.State)
	})

	t.Run("Fresh entry goes stale after TTL", func(t *testing.T) {
		// Arrange
		store := NewStore()
		base := time.Now()
		store.now = func() time.Time { return base }

		store.SetFresh("k", "value", time.Minute)

		// Act & Assert: inside the window
		snap, ok := store.Lookup("k")
		require.True(t, ok)
		assert.Equal(t, StateFresh, snap.State)
		assert.False(t, snap.Stale)

		// Past the window the value is still served, flagged stale.
		store.now = func() time.Time { return base.Add(2 * time.Minute) }

		snap, ok = store.Lookup("k")
		require.True(t, ok)
		assert.Equal(t, StateFresh, snap.State)
		assert.True(t, snap.Stale)
		assert.Equal(t, "value", snap.Value)
	})

	t.Run("Error entry exposes the error", func(t *testing.T) {
		// Arrange
		store := NewStore()
		cause := errors.New("upstream exploded")

		// Act
		store.SetError("k", cause)
		snap, ok := store.Lookup("k")

		// Assert
		require.True(t, ok)
		assert.Equal(t, StateError, snap.State)
		assert.Equal(t, cause, snap.Err)
	})

	t.Run("Not-found never goes stale", func(t *testing.T) {
		// Arrange
		store := NewStore()
		base := time.Now()
		store.now = func() time.Time { return base }

		store.SetNotFound("k")

		// Act: a long time later
		store.now = func() time.Time { return base.Add(24 * time.Hour) }
		snap, ok := store.Lookup("k")

		// Assert
		require.True(t, ok)
		assert.Equal(t, StateNotFound, snap.State)
		assert.False(t, snap.Stale)
	})

	t.Run("Invalidate and Purge", func(t *testing.T) {
		// Arrange
		store := NewStore()
		store.SetFresh("a", 1, time.Minute)
		store.SetFresh("b", 2, time.Minute)

		// Act
		store.Invalidate("a")

		// Assert
		_, ok := store.Lookup("a")
		assert.False(t, ok)
		assert.Equal(t, 1, store.Len())

		assert.Equal(t, 1, store.Purge())
		assert.Equal(t, 0, store.Len())
	})
}
