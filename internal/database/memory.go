package database

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps documents in a map. Data is lost on Close.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string][]byte)
	return nil
}

func (m *MemoryStore) DatabaseType() string {
	return "Memory"
}

func (m *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, value any) error {
	data, err := marshal(key, value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = data
	return nil
}
