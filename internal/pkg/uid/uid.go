// Package uid provides identifier generators behind small interfaces so
// callers can swap implementations in tests.
package uid

// NumberID generates numeric identifiers.
type NumberID interface {
	// Generate returns a new int64 identifier.
	Generate() int64
}

// StringID generates string identifiers.
type StringID interface {
	// Generate returns a new string identifier.
	Generate() string
}
