package sms

import (
	"context"
	"io"
)

// Result reports the outcome of one delivery attempt.
//
// Expected failures (provider rejection, transport trouble) are reported
// here with Success=false, never as an error from Send, so callers always
// branch on Success.
type Result struct {
	// Success reports whether the carrier accepted the message.
	Success bool
	// Message is a human-readable outcome description; on failure it carries
	// the provider or transport reason.
	Message string
	// DeliveryID is the carrier-assigned identifier when Success is true.
	DeliveryID string
}

// Channel abstracts an SMS delivery mechanism.
type Channel interface {
	io.Closer
	// Send transmits body to the phone number in to. The error return is
	// reserved for context cancellation; all delivery outcomes land in Result.
	Send(ctx context.Context, to, body string) (Result, error)
}
