package token

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store implementation. It honors per-key TTLs
// with lazy expiry and exists for tests and single-node development setups
// where a Redis instance is not worth running.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry)}
}

// Get returns the value stored under key, or ErrNotFound once the TTL passed.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}

	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", ErrNotFound
	}

	return entry.value, nil
}

// SetEx stores value under key, replacing any previous value and TTL.
func (s *MemoryStore) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Del removes key.
func (s *MemoryStore) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
