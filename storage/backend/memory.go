package backend

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MemoryStore keeps artifacts in process memory. It backs the "memory"
// strategy used in tests and local development, replacing any globally
// configured storage client with an instance that can be constructed and
// thrown away per test.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
	pattern KeyPatternFunc
}

// KeyPatternFunc generates an object key for an upload.
type KeyPatternFunc func(filename, contentType string, now time.Time) (string, error)

func NewMemoryStore(baseURL string, pattern KeyPatternFunc) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: baseURL,
		pattern: pattern,
	}
}

func (m *MemoryStore) Put(ctx context.Context, up *Upload) (*Artifact, error) {
	if up == nil || up.Body == nil {
		return nil, fmt.Errorf("upload body is required")
	}

	key, err := m.pattern(up.Filename, up.ContentType, time.Now())
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(up.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.objects[key] = data
	m.mu.Unlock()

	return &Artifact{Ref: key, Location: m.baseURL + key}, nil
}

func (m *MemoryStore) Remove(ctx context.Context, ref string) error {
	m.mu.Lock()
	delete(m.objects, ref)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) ResolveURL(location string) string {
	return location
}

func (m *MemoryStore) Kind() string {
	return "memory"
}

// Object returns the stored bytes for a ref, if present.
func (m *MemoryStore) Object(ref string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[ref]
	return data, ok
}

// Len reports how many artifacts are currently stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
