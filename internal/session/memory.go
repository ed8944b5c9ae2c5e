package session

import (
	"context"
	"sync"
	"time"

	"github.com/reservoir-app/reservoir/internal/domain"
)

// MemoryStore implements Store using a mutex-guarded in-process map. Entries
// cross the store boundary as deep copies, so concurrent callers never share
// mutable state; the last Put for a session id wins. Correct for a single
// instance only; horizontally scaled deployments should use the Redis store
// instead.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*domain.SessionEntry
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*domain.SessionEntry),
	}
}

// Get retrieves an entry by session ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.SessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	return entry.Clone(), nil
}

// Put stores an entry under its session ID.
func (s *MemoryStore) Put(ctx context.Context, entry *domain.SessionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.ID] = entry.Clone()
	return nil
}

// Delete removes a single entry.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// DeleteAll clears the entire store.
func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*domain.SessionEntry)
	return nil
}

// Sweep removes entries inactive for longer than ttl.
func (s *MemoryStore) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if entry.Expired(ttl) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Close releases the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return nil
}

var _ Store = (*MemoryStore)(nil)
