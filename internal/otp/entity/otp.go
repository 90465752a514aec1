package entity

import "time"

// OTPRecord is the stored state of an issued one-time passcode. The code
// itself is never persisted, only its HMAC-SHA256 hash.
type OTPRecord struct {
	PhoneNumber string    `json:"phone_number"`
	CodeHash    string    `json:"code_hash"`
	IssuedAt    time.Time `json:"issued_at"`
}

// ExpiresAt returns the instant the record stops being verifiable.
func (r OTPRecord) ExpiresAt(ttl time.Duration) time.Time {
	return r.IssuedAt.Add(ttl)
}

// Expired reports whether the record is past its lifetime at the given instant.
func (r OTPRecord) Expired(now time.Time, ttl time.Duration) bool {
	return now.After(r.ExpiresAt(ttl))
}
