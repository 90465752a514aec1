package phone

import "testing"

func TestIsValid(t *testing.T) {
	valid := []string{
		"+15005550006",
		"+6281234567890",
		"+442071838750",
		"+12",
		"+123456789012345",
	}
	for _, num := range valid {
		if !IsValid(num) {
			t.Errorf("IsValid(%q) = false, want true", num)
		}
	}

	invalid := []string{
		"",
		"5005550006",
		"+0123",
		"+1",
		"+1234567890123456",
		"+1 500 555 0006",
		"+1500555000a",
		"15005550006+",
		"++15005550006",
	}
	for _, num := range invalid {
		if IsValid(num) {
			t.Errorf("IsValid(%q) = true, want false", num)
		}
	}
}
