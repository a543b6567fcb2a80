package docstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStore_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var got sample
	found, err := s.Get(ctx, "pages", "a", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "pages", "a", sample{Name: "x", Count: 1}))
	require.NoError(t, s.Set(ctx, "pages", "a", sample{Name: "y", Count: 2}))

	found, err = s.Get(ctx, "pages", "a", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "y", Count: 2}, got)
}

func TestMemoryStore_CreateRejectsExisting(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, "pages", "a", sample{Name: "first"}))
	err := s.Create(ctx, "pages", "a", sample{Name: "second"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var got sample
	_, err = s.Get(ctx, "pages", "a", &got)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)

	// same key in another collection is a different document
	require.NoError(t, s.Create(ctx, "slug_map", "a", map[string]string{"id": "b"}))
	assert.Equal(t, 1, s.Len("pages"))
	assert.Equal(t, 1, s.Len("slug_map"))
}

func TestMemoryStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "drafts", "d1", sample{Name: "draft"}))
	require.NoError(t, s.Delete(ctx, "drafts", "d1"))

	found, err := s.Get(ctx, "drafts", "d1", &sample{})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_PurgeBefore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "drafts", "old", sample{Name: "old"}))
	require.NoError(t, s.Set(ctx, "pages", "old", sample{Name: "page"}))
	now = now.Add(48 * time.Hour)
	require.NoError(t, s.Set(ctx, "drafts", "fresh", sample{Name: "fresh"}))

	n, err := s.PurgeBefore(ctx, "drafts", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, s.Len("drafts"))
	assert.Equal(t, 1, s.Len("pages"))

	found, err := s.Get(ctx, "drafts", "fresh", &sample{})
	require.NoError(t, err)
	assert.True(t, found)
}
