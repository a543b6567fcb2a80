// file: internals/helpers/docstore/memory_store.go

package docstore

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
)

type memDoc struct {
	raw       []byte
	updatedAt time.Time
}

// MemoryStore keeps encoded documents in a map. Used with DOCSTORE_DRIVER=memory and in tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memDoc
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memDoc), now: time.Now}
}

// WithClock replaces the clock stamping updatedAt.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func memKey(collection, key string) string { return collection + "\x00" + key }

func (s *MemoryStore) Get(_ context.Context, collection, key string, out any) (bool, error) {
	s.mu.RLock()
	doc, ok := s.docs[memKey(collection, key)]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := sonic.Unmarshal(doc.raw, out); err != nil {
		return false, fmt.Errorf("docstore decode %s/%s: %w", collection, key, err)
	}
	return true, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, key string, v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("docstore encode %s/%s: %w", collection, key, err)
	}
	s.mu.Lock()
	s.docs[memKey(collection, key)] = memDoc{raw: raw, updatedAt: s.now()}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Create(_ context.Context, collection, key string, v any) error {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("docstore encode %s/%s: %w", collection, key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := memKey(collection, key)
	if _, exists := s.docs[k]; exists {
		return ErrAlreadyExists
	}
	s.docs[k] = memDoc{raw: raw, updatedAt: s.now()}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, key string) error {
	s.mu.Lock()
	delete(s.docs, memKey(collection, key))
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PurgeBefore(_ context.Context, collection string, cutoff time.Time) (int64, error) {
	prefix := collection + "\x00"
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, doc := range s.docs {
		if strings.HasPrefix(k, prefix) && doc.updatedAt.Before(cutoff) {
			delete(s.docs, k)
			n++
		}
	}
	return n, nil
}

// Len counts documents in a collection.
func (s *MemoryStore) Len(collection string) int {
	prefix := collection + "\x00"
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for k := range s.docs {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}
