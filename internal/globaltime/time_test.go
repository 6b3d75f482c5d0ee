package globaltime

import (
	"testing"
	"time"
)

func TestSetMockTimeAndAdvance(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	SetMockTime(base)
	t.Cleanup(ResetTime)

	if got := Now(); !got.Equal(base) {
		t.Fatalf("unexpected frozen time: %v", got)
	}

	Advance(90 * time.Second)
	if got := UTC(); !got.Equal(base.Add(90 * time.Second)) {
		t.Fatalf("unexpected advanced time: %v", got)
	}
}
