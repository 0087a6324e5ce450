package store

import (
	"context"
	"sync"
)

// MemoryBlobs is a BlobStore held in process memory.
type MemoryBlobs struct {
	mu   sync.RWMutex
	data map[string][]byte

	// PutErr, when set, is returned by every Put. Tests use it to simulate
	// a failing backend.
	PutErr error
}

var _ BlobStore = (*MemoryBlobs)(nil)

// NewMemoryBlobs returns an empty in-memory store.
func NewMemoryBlobs() *MemoryBlobs {
	return &MemoryBlobs{data: make(map[string][]byte)}
}

func (m *MemoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBlobs) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryBlobs) Close() error { return nil }
