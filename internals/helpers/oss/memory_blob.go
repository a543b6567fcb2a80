// file: internals/helpers/oss/memory_blob.go

package helper

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

type memObject struct {
	Data        []byte
	ContentType string
}

// MemoryBlobService keeps objects in memory (BLOB_DRIVER=memory, tests).
type MemoryBlobService struct {
	mu      sync.RWMutex
	base    string
	objects map[string]memObject
}

func NewMemoryBlobService(base string) *MemoryBlobService {
	return &MemoryBlobService{
		base:    strings.TrimRight(base, "/"),
		objects: make(map[string]memObject),
	}
}

func (m *MemoryBlobService) Upload(_ context.Context, path string, data []byte, contentType string) (string, error) {
	key := joinKey("", path)
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	cp := append([]byte(nil), data...)
	m.mu.Lock()
	m.objects[key] = memObject{Data: cp, ContentType: contentType}
	m.mu.Unlock()
	return m.base + "/" + key, nil
}

func (m *MemoryBlobService) Delete(_ context.Context, publicURL string) error {
	key, err := extractKey(publicURL, m.base)
	if err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MemoryBlobService) Get(publicURL string) ([]byte, string, bool) {
	key, err := extractKey(publicURL, m.base)
	if err != nil {
		return nil, "", false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o.Data, o.ContentType, ok
}

// Keys lists stored keys in sorted order.
func (m *MemoryBlobService) Keys() []string {
	m.mu.RLock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	m.mu.RUnlock()
	sort.Strings(out)
	return out
}
