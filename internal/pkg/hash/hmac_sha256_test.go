package hash

import "testing"

func TestHMACSHA256(t *testing.T) {

	t.Run("HashAndVerifyRoundTrip", func(t *testing.T) {
		h := NewHMACSHA256("test-secret")

		hashed, err := h.Hash("123456")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !h.Verify(string(hashed), "123456") {
			t.Fatalf("expected hash to verify")
		}
	})

	t.Run("WrongPlaintextFails", func(t *testing.T) {
		h := NewHMACSHA256("test-secret")

		hashed, _ := h.Hash("123456")
		if h.Verify(string(hashed), "654321") {
			t.Fatalf("expected verification to fail")
		}
	})

	t.Run("DifferentSecretsDisagree", func(t *testing.T) {
		a := NewHMACSHA256("secret-a")
		b := NewHMACSHA256("secret-b")

		hashed, _ := a.Hash("123456")
		if b.Verify(string(hashed), "123456") {
			t.Fatalf("expected a different secret to fail verification")
		}
	})
}
