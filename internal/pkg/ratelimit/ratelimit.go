package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimbusheet/otpgate/internal/pkg/clock"
)

const (
	// DriverMemory selects the in-process backend.
	DriverMemory = "memory"
	// DriverRedis selects the Redis backend.
	DriverRedis = "redis"
)

// ErrUnknownDriver indicates an unsupported rate limit driver.
var ErrUnknownDriver = errors.New("ratelimit: unknown driver")

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// TryAcquire records one request for key and reports whether it is
	// admitted. A rejected request does not consume quota. The returned error
	// signals a backend failure, not a rejection; callers decide whether to
	// fail open or closed.
	TryAcquire(ctx context.Context, key string, maxRequests int, window time.Duration) (bool, error)
}

// FactoryOptions groups configuration for the supported limiter backends.
type FactoryOptions struct {
	// Clock supplies time to the memory backend.
	Clock clock.Clocker
	// Redis is the client used by the Redis backend.
	Redis *redis.Client
}

// NewFromDriver constructs a Limiter implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Limiter, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverMemory:
		return NewMemory(opts.Clock), nil
	case DriverRedis:
		return NewRedis(opts.Redis), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
