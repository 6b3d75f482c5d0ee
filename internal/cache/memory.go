package cache

import (
	"context"
	"sync"
	"time"

	"horse.fit/lingonews/internal/globaltime"
)

// MemoryStore is a process-local cache with lazy expiry. It has no size bound.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]Entry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Value, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Value{}, false
	}

	if entry.Expired(globaltime.Now()) {
		s.mu.Lock()
		// A concurrent Put may have refreshed the slot since the read.
		if current, exists := s.entries[key]; exists && current.Expired(globaltime.Now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return Value{}, false
	}
	return entry.Value, true
}

func (s *MemoryStore) Put(_ context.Context, key string, value Value) {
	entry := Entry{
		Key:       key,
		Value:     value,
		ExpiresAt: globaltime.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
}

// Len counts stored entries, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
