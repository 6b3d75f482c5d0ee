package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"horse.fit/lingonews/internal/globaltime"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	if _, ok := store.Get(ctx, "1:English"); ok {
		t.Fatalf("expected empty store to miss")
	}

	store.Put(ctx, "1:English", Value{Title: "Hello", Description: "World"})
	got, ok := store.Get(ctx, "1:English")
	if !ok {
		t.Fatalf("expected hit after put")
	}
	if got.Title != "Hello" || got.Description != "World" {
		t.Fatalf("unexpected value: %+v", got)
	}

	store.Put(ctx, "1:English", Value{Title: "Hi"})
	got, _ = store.Get(ctx, "1:English")
	if got.Title != "Hi" || got.Description != "" {
		t.Fatalf("expected last writer to win, got %+v", got)
	}
}

// Not parallel: moves the package clock.
func TestMemoryStoreExpiresLazily(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	globaltime.SetMockTime(base)
	defer globaltime.ResetTime()

	store := NewMemoryStore(10 * time.Second)
	ctx := context.Background()
	store.Put(ctx, "k", Value{Title: "cached"})

	globaltime.Advance(10 * time.Second)
	if _, ok := store.Get(ctx, "k"); !ok {
		t.Fatalf("entry must survive until now passes expiry")
	}

	globaltime.Advance(time.Second)
	if _, ok := store.Get(ctx, "k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if store.Len() != 0 {
		t.Fatalf("expected expired entry to be removed, len=%d", store.Len())
	}
}

func TestMemoryStoreDefaultsTTL(t *testing.T) {
	t.Parallel()

	if store := NewMemoryStore(0); store.ttl != DefaultTTL {
		t.Fatalf("expected default ttl, got %s", store.ttl)
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range 50 {
				key := fmt.Sprintf("%d:%d", worker%4, j%5)
				store.Put(ctx, key, Value{Title: key})
				if got, ok := store.Get(ctx, key); ok && got.Title != key {
					t.Errorf("unexpected value for %s: %+v", key, got)
				}
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 20 {
		t.Fatalf("expected 20 distinct keys, got %d", store.Len())
	}
}
