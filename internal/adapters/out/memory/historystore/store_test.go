package historystore_test

import (
	"testing"
	"time"

	"labconsole/internal/adapters/out/memory/historystore"
	"labconsole/internal/core/domain/model/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := t.Context()
	series := history.Series{
		{OrderDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ResultValue: "4.0"},
		{OrderDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), ResultValue: "5.2"},
	}

	t.Run("missing entry", func(t *testing.T) {
		store := historystore.NewStore()

		got, ok, err := store.Get(ctx, "ws", 1)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("put then get returns a copy", func(t *testing.T) {
		store := historystore.NewStore()
		require.NoError(t, store.Put(ctx, "ws", 1, series))

		got, ok, err := store.Get(ctx, "ws", 1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, series, got)

		got[0].ResultValue = "changed"
		again, _, _ := store.Get(ctx, "ws", 1)
		assert.Equal(t, "4.0", again[0].ResultValue)
	})

	t.Run("empty series counts as cached", func(t *testing.T) {
		store := historystore.NewStore()
		require.NoError(t, store.Put(ctx, "ws", 1, nil))

		got, ok, err := store.Get(ctx, "ws", 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("scopes are isolated", func(t *testing.T) {
		store := historystore.NewStore()
		require.NoError(t, store.Put(ctx, "a", 1, series))
		require.NoError(t, store.Put(ctx, "b", 1, series[:1]))
		require.NoError(t, store.Put(ctx, "b", 2, series))

		require.NoError(t, store.DeleteScope(ctx, "b"))

		_, ok, _ := store.Get(ctx, "a", 1)
		assert.True(t, ok)
		_, ok, _ = store.Get(ctx, "b", 1)
		assert.False(t, ok)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := historystore.NewStore()
		require.NoError(t, store.Put(ctx, "ws", 1, series))

		require.NoError(t, store.Delete(ctx, "ws", 1))
		require.NoError(t, store.Delete(ctx, "ws", 1))

		_, ok, _ := store.Get(ctx, "ws", 1)
		assert.False(t, ok)
	})
}
