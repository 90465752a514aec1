// Package otpcode generates short-lived numeric one-time passcodes.
//
// Codes are random (crypto/rand), not time-derived: each issuance is a fresh
// credential proving possession of a phone number, delivered out of band and
// consumed exactly once.
package otpcode
