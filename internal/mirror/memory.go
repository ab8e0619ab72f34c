package mirror

import (
	"context"
	"sync"
)

// MemoryStore is the process-local backend. It covers same-surface
// navigation the way tab-scoped storage does in a browser: cheap, always
// reachable, gone with the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Selection
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Selection)}
}

func (s *MemoryStore) Set(_ context.Context, userID string, sel Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = sel
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (Selection, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, ok := s.entries[userID]
	return sel, ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}
