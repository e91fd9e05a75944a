package content

import (
	"context"
	"fmt"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps collections in memory. A collection exists once Put has
// been called for it, even with no entries.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Entry)}
}

func (s *MemoryStore) Put(name string, entries []Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Entry, len(entries))
	copy(stored, entries)
	s.collections[name] = stored
}

func (s *MemoryStore) GetCollection(ctx context.Context, name string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
	}

	result := make([]Entry, len(entries))
	copy(result, entries)
	return result, nil
}
