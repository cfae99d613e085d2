package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("user-1", time.Hour)
	require.NotEmpty(t, s.ID)
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "user-1", got.UserID)

	require.NoError(t, store.Delete(ctx, s.ID))
	got, err = store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreExpiredReadsAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	s := New("user-1", -time.Minute)
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "expired session must be observed as absent")
}

func TestMemoryStoreDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Delete(ctx, "does-not-exist"))
	require.NoError(t, store.Delete(ctx, "does-not-exist"))
}

func TestSessionIDsUnique(t *testing.T) {
	a := New("u", time.Hour)
	b := New("u", time.Hour)
	assert.NotEqual(t, a.ID, b.ID)
}
