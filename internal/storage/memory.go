package storage

import (
	"context"
	"sync"
)

// MemoryKV is a process-local store for tests and throwaway runs.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]string)}
}

func (m *MemoryKV) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *MemoryKV) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryKV) Close() error { return nil }
