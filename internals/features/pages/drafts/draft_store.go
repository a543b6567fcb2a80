// file: internals/features/pages/drafts/draft_store.go

// Package drafts keeps half-filled creation forms between visits.
package drafts

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"parasempre_backend/internals/features/pages/model"
	"parasempre_backend/internals/helpers/docstore"
)

var ErrDraftNotFound = errors.New("draft not found")

// DefaultTTL is how long an untouched draft is kept.
const DefaultTTL = 7 * 24 * time.Hour

// Draft mirrors the creation form. Every field is optional; the limits follow CreatePageRequest.
type Draft struct {
	CoupleName      string    `json:"coupleName,omitempty" validate:"max=120"`
	Message         string    `json:"message,omitempty" validate:"max=5000"`
	StartDate       string    `json:"startDate,omitempty" validate:"max=10"`
	StartTime       string    `json:"startTime,omitempty" validate:"max=8"`
	YoutubeURL      string    `json:"youtubeUrl,omitempty" validate:"omitempty,url,max=300"`
	TextColor       string    `json:"textColor,omitempty" validate:"max=32"`
	BackgroundColor string    `json:"backgroundColor,omitempty" validate:"max=32"`
	Plan            string    `json:"plan,omitempty" validate:"max=32"`
	Lang            string    `json:"lang,omitempty" validate:"max=16"`
	PaymentID       string    `json:"paymentId,omitempty" validate:"max=64"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Store interface {
	Get(ctx context.Context, id string) (Draft, error)
	Set(ctx context.Context, id string, d Draft) error
	Clear(ctx context.Context, id string) error
}

/* ===================== memory ===================== */

type memEntry struct {
	draft   Draft
	expires time.Time
}

// MemoryStore forgets drafts TTL after their last Set.
type MemoryStore struct {
	mu  sync.Mutex
	m   map[string]memEntry
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{m: map[string]memEntry{}, ttl: ttl, now: time.Now}
}

func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	if !ok {
		return Draft{}, ErrDraftNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.m, id)
		return Draft{}, ErrDraftNotFound
	}
	return e.draft, nil
}

func (s *MemoryStore) Set(_ context.Context, id string, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	d.UpdatedAt = now
	s.m[id] = memEntry{draft: d, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

/* ===================== docstore ===================== */

// DocStore persists drafts in the "drafts" collection. A draft older than
// TTL reads as missing; Purge removes such drafts from stores that support it.
type DocStore struct {
	Docs docstore.Store
	ttl  time.Duration
	now  func() time.Time
}

func NewDocStore(docs docstore.Store, ttl time.Duration) *DocStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DocStore{Docs: docs, ttl: ttl, now: time.Now}
}

func (s *DocStore) WithClock(now func() time.Time) *DocStore {
	s.now = now
	return s
}

func (s *DocStore) Get(ctx context.Context, id string) (Draft, error) {
	var d Draft
	found, err := s.Docs.Get(ctx, model.CollectionDrafts, id, &d)
	if err != nil {
		return Draft{}, err
	}
	if !found {
		return Draft{}, ErrDraftNotFound
	}
	if !s.now().Before(d.UpdatedAt.Add(s.ttl)) {
		if err := s.Docs.Delete(ctx, model.CollectionDrafts, id); err != nil {
			log.Printf("[DRAFTS] delete expired %s: %v", id, err)
		}
		return Draft{}, ErrDraftNotFound
	}
	return d, nil
}

func (s *DocStore) Set(ctx context.Context, id string, d Draft) error {
	d.UpdatedAt = s.now()
	return s.Docs.Set(ctx, model.CollectionDrafts, id, d)
}

func (s *DocStore) Clear(ctx context.Context, id string) error {
	return s.Docs.Delete(ctx, model.CollectionDrafts, id)
}

// Purge deletes drafts not written within TTL. Returns 0 when the backing
// store cannot purge in bulk; those drafts still expire on read.
func (s *DocStore) Purge(ctx context.Context) (int64, error) {
	p, ok := s.Docs.(docstore.Purger)
	if !ok {
		return 0, nil
	}
	return p.PurgeBefore(ctx, model.CollectionDrafts, s.now().Add(-s.ttl))
}
