// Package globaltime is the process clock. Cache expiry reads it so tests can freeze and advance time.
package globaltime

import (
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	nowFunc = time.Now
)

func Now() time.Time {
	mu.RLock()
	defer mu.RUnlock()
	return nowFunc()
}

func UTC() time.Time {
	return Now().UTC()
}

// SetMockTime freezes the clock at t.
func SetMockTime(t time.Time) {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = func() time.Time { return t }
}

// Advance moves a frozen clock forward by d. It freezes the clock first when it is running.
func Advance(d time.Duration) {
	mu.Lock()
	defer mu.Unlock()
	next := nowFunc().Add(d)
	nowFunc = func() time.Time { return next }
}

func ResetTime() {
	mu.Lock()
	defer mu.Unlock()
	nowFunc = time.Now
}
