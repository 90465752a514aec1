// Package hash provides helpers for hashing and verifying short-lived
// secrets.
//
// The service never stores a one-time passcode in the clear: issuance keeps
// only the keyed hash, then verification compares the submitted code against
// the stored hash in constant time.
package hash
