package sms

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// DefaultSimulatedDelay approximates a carrier round trip.
const DefaultSimulatedDelay = 100 * time.Millisecond

// Simulated is a Channel for development and tests. It always succeeds after
// a fixed artificial delay and never exercises a real error path.
type Simulated struct {
	delay time.Duration
}

// NewSimulated creates a Simulated channel. A non-positive delay falls back
// to DefaultSimulatedDelay.
func NewSimulated(delay time.Duration) *Simulated {
	if delay <= 0 {
		delay = DefaultSimulatedDelay
	}

	return &Simulated{delay: delay}
}

// Send implements Channel. The message body is logged instead of transmitted.
func (s *Simulated) Send(ctx context.Context, to, body string) (Result, error) {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-timer.C:
	}

	id := "sim-" + uuid.NewString()
	slog.InfoContext(ctx, "simulated sms delivery", "to", to, "delivery_id", id, "body", body)

	return Result{
		Success:    true,
		Message:    "delivered (simulated)",
		DeliveryID: id,
	}, nil
}

// Close implements io.Closer for interface compatibility.
func (s *Simulated) Close() error {
	return nil
}
