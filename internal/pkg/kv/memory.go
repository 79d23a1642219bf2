package kv

import (
	"context"
	"sync"
)

// MemoryStore keeps tables in a map. Used for tests and throwaway environments.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]byte)}
}

func (s *MemoryStore) Read(_ context.Context, table string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.tables[table]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, table string, data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.tables[table] = buf
	s.mu.Unlock()
	return nil
}
