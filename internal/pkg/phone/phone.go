package phone

import "regexp"

// reE164 matches E.164 numbers: a leading "+", a first digit 1-9, and at most
// 15 digits total.
var reE164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// IsValid reports whether s is a well-formed E.164 phone number.
func IsValid(s string) bool {
	return reE164.MatchString(s)
}
