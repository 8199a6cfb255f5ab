package store

import (
	"context"
	"sync"
	"time"

	"github.com/linkrift/linkrift/internal/quota"
)

type counterEntry struct {
	count     int64
	expiresAt time.Time // zero until the first increment attaches a TTL
}

// MemoryQuotaStore is an in-memory implementation of quota.CounterStore.
type MemoryQuotaStore struct {
	mu       sync.Mutex
	counters map[string]*counterEntry
}

// NewMemoryQuotaStore creates a new in-memory quota counter store.
func NewMemoryQuotaStore() *MemoryQuotaStore {
	return &MemoryQuotaStore{
		counters: make(map[string]*counterEntry),
	}
}

func (s *MemoryQuotaStore) Get(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.counters[key]
	if !ok {
		return 0, nil
	}

	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(time.Now()) {
		delete(s.counters, key)

		return 0, nil
	}

	return entry.count, nil
}

func (s *MemoryQuotaStore) Increment(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.counters[key]
	if !ok || (!entry.expiresAt.IsZero() && !entry.expiresAt.After(time.Now())) {
		entry = &counterEntry{}
		s.counters[key] = entry
	}

	entry.count++

	if entry.expiresAt.IsZero() {
		entry.expiresAt = time.Now().Add(ttl)
	}

	return nil
}

// Compile-time check.
var _ quota.CounterStore = (*MemoryQuotaStore)(nil)
