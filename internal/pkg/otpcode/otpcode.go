package otpcode

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// digits is the character set for generated codes. Numeric only, so the code
// survives voice readout and every SMS client keyboard.
const digits = "0123456789"

// DefaultLength is the code length used when Generator receives a
// non-positive length.
const DefaultLength = 6

// Generator defines an interface for generating one-time passcodes.
type Generator interface {
	// Generate returns a fixed-length numeric code or an error if the random
	// source fails.
	Generate() (string, error)
}

// Numeric generates cryptographically secure numeric codes.
type Numeric struct {
	length int
}

// NewNumeric returns a Numeric generator producing codes of the given length.
func NewNumeric(length int) *Numeric {
	if length < 1 {
		length = DefaultLength
	}

	return &Numeric{length: length}
}

// Generate produces a random numeric code.
//
// Each digit is drawn uniformly from crypto/rand, so leading zeros are
// possible and the code must be treated as an opaque string.
func (n *Numeric) Generate() (string, error) {
	var sb strings.Builder
	sb.Grow(n.length)

	for i := 0; i < n.length; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(digits[idx.Int64()])
	}

	return sb.String(), nil
}
