package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminkit/portal-core/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	_, queries, cleanup, err := storage.NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return NewStore(queries)
}

func TestStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	accessToken, refreshToken, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "access-1", "refresh-1"))

	accessToken, refreshToken, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-1", accessToken)
	assert.Equal(t, "refresh-1", refreshToken)

	// A second save replaces the single row.
	require.NoError(t, store.Save(ctx, "access-2", "refresh-2"))

	accessToken, refreshToken, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", accessToken)
	assert.Equal(t, "refresh-2", refreshToken)
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "access", "refresh"))
	require.NoError(t, store.Clear(ctx))

	accessToken, refreshToken, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, accessToken)
	assert.Empty(t, refreshToken)

	// Clearing an already-empty store is fine.
	require.NoError(t, store.Clear(ctx))
}
