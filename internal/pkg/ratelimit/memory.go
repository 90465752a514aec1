package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/nimbusheet/otpgate/internal/pkg/clock"
)

type windowKey struct {
	key   string
	index int64
}

// Memory is an in-process Limiter keeping counters in a map.
//
// Counters for a key live under (key, windowIndex); stale windows are swept
// opportunistically when the limiter first sees a newer window, so memory
// stays bounded without a background goroutine.
type Memory struct {
	mu     sync.Mutex
	counts map[windowKey]int
	clock  clock.Clocker

	// lastSweep holds the newest window index that triggered a sweep.
	lastSweep atomic.Int64
}

// NewMemory creates a memory limiter using the given clock.
func NewMemory(clk clock.Clocker) *Memory {
	if clk == nil {
		clk = clock.New()
	}

	return &Memory{
		counts: make(map[windowKey]int),
		clock:  clk,
	}
}

// TryAcquire implements Limiter. The check and increment happen under one
// lock, so concurrent callers sharing a key cannot lose updates and slip past
// the limit.
func (m *Memory) TryAcquire(_ context.Context, key string, maxRequests int, window time.Duration) (bool, error) {
	if maxRequests < 1 || window <= 0 {
		return false, nil
	}

	index := m.clock.Now().UnixMilli() / window.Milliseconds()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked(index)

	wk := windowKey{key: key, index: index}
	if m.counts[wk] >= maxRequests {
		return false, nil
	}

	m.counts[wk]++

	return true, nil
}

// sweepLocked discards counters from windows older than index. Runs at most
// once per window roll; callers must hold mu.
func (m *Memory) sweepLocked(index int64) {
	if m.lastSweep.Load() >= index {
		return
	}
	m.lastSweep.Store(index)

	for wk := range m.counts {
		if wk.index < index {
			delete(m.counts, wk)
		}
	}
}
