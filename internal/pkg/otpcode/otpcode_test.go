package otpcode

import (
	"strings"
	"testing"
)

func TestNumericGenerate(t *testing.T) {

	t.Run("FixedLengthNumeric", func(t *testing.T) {
		gen := NewNumeric(6)

		for i := 0; i < 50; i++ {
			code, err := gen.Generate()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(code) != 6 {
				t.Fatalf("expected 6 characters, got %q", code)
			}
			if strings.Trim(code, digits) != "" {
				t.Fatalf("expected only digits, got %q", code)
			}
		}
	})

	t.Run("NonPositiveLengthFallsBack", func(t *testing.T) {
		gen := NewNumeric(0)

		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != DefaultLength {
			t.Fatalf("expected %d characters, got %q", DefaultLength, code)
		}
	})
}
