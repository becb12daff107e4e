package store

import (
	"context"
	"sync"
)

// Backend keeps one opaque value per key. Implementations must treat Set as
// a full overwrite.
type Backend interface {
	// Get returns the value stored under key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// MemoryBackend keeps values in process memory. It is safe for concurrent use.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
