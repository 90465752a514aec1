package sms

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DriverSimulated selects the development channel.
	DriverSimulated = "simulated"
	// DriverTwilio selects the Twilio backend.
	DriverTwilio = "twilio"
)

// ErrUnknownDriver indicates an unsupported delivery driver.
var ErrUnknownDriver = errors.New("sms: unknown driver")

// FactoryOptions groups configuration for the supported delivery channels.
type FactoryOptions struct {
	// SimulatedDelay is the artificial delay of the simulated channel.
	SimulatedDelay time.Duration
	// Twilio configures the Twilio backend.
	Twilio TwilioOptions
}

// NewFromDriver constructs a Channel implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSimulated:
		return NewSimulated(opts.SimulatedDelay), nil
	case DriverTwilio:
		return NewTwilio(opts.Twilio)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
