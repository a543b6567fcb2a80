package drafts

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "parasempre_backend/internals/helpers"
	"parasempre_backend/internals/helpers/docstore"
)

func TestMemoryStore_TTL(t *testing.T) {
	now := time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "d1", Draft{CoupleName: "Ana & Beto", Plan: "premium"}))

	d, err := s.Get(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "Ana & Beto", d.CoupleName)
	assert.True(t, d.UpdatedAt.Equal(now))

	now = now.Add(time.Hour)
	_, err = s.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "d1", Draft{Message: "oi"}))
	require.NoError(t, s.Clear(ctx, "d1"))
	_, err := s.Get(ctx, "d1")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestDocStore_RoundTrip(t *testing.T) {
	docs := docstore.NewMemoryStore()
	s := NewDocStore(docs, 0)
	ctx := context.Background()

	_, err := s.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrDraftNotFound)

	require.NoError(t, s.Set(ctx, "x", Draft{StartDate: "2020-05-01", BackgroundColor: "ocean"}))
	assert.Equal(t, 1, docs.Len("drafts"))

	d, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "2020-05-01", d.StartDate)
	assert.Equal(t, "ocean", d.BackgroundColor)

	require.NoError(t, s.Clear(ctx, "x"))
	assert.Equal(t, 0, docs.Len("drafts"))
}

func TestDocStore_ExpiredDraftIsGone(t *testing.T) {
	docs := docstore.NewMemoryStore()
	now := time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)
	s := NewDocStore(docs, time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "x", Draft{CoupleName: "Ana"}))

	now = now.Add(59 * time.Minute)
	d, err := s.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "Ana", d.CoupleName)

	now = now.Add(time.Minute)
	_, err = s.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.Equal(t, 0, docs.Len("drafts"))
}

func TestDocStore_Purge(t *testing.T) {
	written := time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)
	docs := docstore.NewMemoryStore().WithClock(func() time.Time { return written })
	now := written
	s := NewDocStore(docs, 24*time.Hour).WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "stale", Draft{Message: "oi"}))

	n, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	now = now.Add(25 * time.Hour)
	n, err = s.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 0, docs.Len("drafts"))
}

func TestDraft_Validation(t *testing.T) {
	ok := Draft{CoupleName: "Ana", YoutubeURL: "https://youtu.be/abc"}
	assert.NoError(t, helper.Validate.Struct(ok))

	long := Draft{Message: strings.Repeat("a", 5001)}
	assert.Error(t, helper.Validate.Struct(long))

	badURL := Draft{YoutubeURL: "not a url"}
	assert.Error(t, helper.Validate.Struct(badURL))
}
