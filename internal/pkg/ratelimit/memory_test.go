package ratelimit

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

func TestMemoryTryAcquire(t *testing.T) {

	t.Run("AdmitsUntilLimitThenRejects", func(t *testing.T) {

		// Arrange
		clk := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		limiter := NewMemory(clk)

		// Act
		var got []bool
		for i := 0; i < 4; i++ {
			ok, err := limiter.TryAcquire(context.Background(), "+15005550006", 3, time.Minute)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got = append(got, ok)
		}

		// Assert
		want := []bool{true, true, true, false}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("attempt %d = %v, want %v", i+1, got[i], want[i])
			}
		}
	})

	t.Run("IndependentKeysDoNotInterfere", func(t *testing.T) {

		// Arrange
		clk := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		limiter := NewMemory(clk)

		for i := 0; i < 3; i++ {
			if ok, _ := limiter.TryAcquire(context.Background(), "+15005550006", 3, time.Minute); !ok {
				t.Fatalf("expected attempt %d admitted", i+1)
			}
		}

		// Act
		ok, err := limiter.TryAcquire(context.Background(), "+15005550007", 3, time.Minute)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("expected a different key to be admitted")
		}
	})

	t.Run("NewWindowResetsCount", func(t *testing.T) {

		// Arrange
		clk := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		limiter := NewMemory(clk)

		for i := 0; i < 3; i++ {
			limiter.TryAcquire(context.Background(), "+15005550006", 3, time.Minute)
		}
		if ok, _ := limiter.TryAcquire(context.Background(), "+15005550006", 3, time.Minute); ok {
			t.Fatalf("expected rejection inside the window")
		}

		// Act
		clk.now = clk.now.Add(time.Minute)
		ok, err := limiter.TryAcquire(context.Background(), "+15005550006", 3, time.Minute)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("expected admission after the window rolled")
		}
	})

	t.Run("StaleWindowsAreSwept", func(t *testing.T) {

		// Arrange
		clk := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
		limiter := NewMemory(clk)

		limiter.TryAcquire(context.Background(), "+15005550006", 3, time.Minute)
		limiter.TryAcquire(context.Background(), "+15005550007", 3, time.Minute)

		// Act
		clk.now = clk.now.Add(2 * time.Minute)
		limiter.TryAcquire(context.Background(), "+15005550008", 3, time.Minute)

		// Assert
		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		if len(limiter.counts) != 1 {
			t.Fatalf("expected stale windows swept, got %d counters", len(limiter.counts))
		}
	})
}
