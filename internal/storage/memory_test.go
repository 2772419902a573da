package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAddAndCheck(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.IsModerator(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Add(ctx, Moderator{UserID: "u1", Name: "Dave", AddedBy: "admin"}))

	ok, err = s.IsModerator(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreAddIsUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Add(ctx, Moderator{UserID: "u1", Name: "Dave"}))
	require.NoError(t, s.Add(ctx, Moderator{UserID: "u1", Name: "David"}))

	mods, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, mods, 1)
	assert.Equal(t, "David", mods[0].Name)
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Add(ctx, Moderator{UserID: "u1", Name: "Dave"}))
	require.NoError(t, s.Remove(ctx, "u1"))

	ok, err := s.IsModerator(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing an absent moderator is not an error
	assert.NoError(t, s.Remove(ctx, "nobody"))
}

func TestMemoryStoreListSortedByName(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Add(ctx, Moderator{UserID: "u3", Name: "Zoe"}))
	require.NoError(t, s.Add(ctx, Moderator{UserID: "u1", Name: "Alice"}))
	require.NoError(t, s.Add(ctx, Moderator{UserID: "u2", Name: "Mary"}))

	mods, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, mods, 3)
	assert.Equal(t, []string{"Alice", "Mary", "Zoe"}, []string{mods[0].Name, mods[1].Name, mods[2].Name})
}

func TestMemoryStoreReadyAndClose(t *testing.T) {
	s := NewMemoryStore()
	assert.NoError(t, s.Ready(context.Background()))
	assert.NoError(t, s.Close())
}
