// Package store holds active OTP records keyed by phone number. At most one
// record exists per phone, a later issuance overwrites the earlier one, and a
// successful verification consumes the record.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nimbusheet/otpgate/internal/otp/entity"
	"github.com/nimbusheet/otpgate/internal/pkg/clock"
)

// Driver identifies a supported store backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverRedis  Driver = "redis"
)

// Store persists OTP records for their verification window.
type Store interface {
	// Put saves the record, replacing any earlier record for the same phone.
	Put(ctx context.Context, rec entity.OTPRecord, ttl time.Duration) error
	// Get returns the active record, or goerror.ErrNotFound when none exists.
	Get(ctx context.Context, phoneNumber string) (*entity.OTPRecord, error)
	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, phoneNumber string) error
}

// FactoryOptions carries backend-specific dependencies for NewFromDriver.
type FactoryOptions struct {
	Clock clock.Clocker
	Redis *redis.Client
}

// NewFromDriver builds a Store for the configured driver.
func NewFromDriver(driver Driver, opts FactoryOptions) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(opts.Clock), nil
	case DriverRedis:
		if opts.Redis == nil {
			return nil, fmt.Errorf("store: redis driver requires a client")
		}

		return NewRedis(opts.Redis), nil
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}
}
