// Package credential provides pure validation of email syntax and password
// strength. No state, no I/O; the exact error messages and the three-tier
// strength mapping are part of the client contract and must not change.
package credential

import "regexp"

// Password policy constants. These are contract values surfaced to clients.
const (
	MinPasswordLength = 12
	// SpecialChars is the fixed set satisfying the special-character rule.
	SpecialChars = `!@#$%^&*()_+-=[]{}|;:'",.<>?/`
)

// Exact client-facing messages, one per unmet rule.
const (
	msgLength  = "At least 12 characters"
	msgUpper   = "At least one uppercase letter"
	msgLower   = "At least one lowercase letter"
	msgDigit   = "At least one number"
	msgSpecial = "At least one special character"
)

// Strength classifies a password by how many policy rules it breaks.
// This is a UI classification, not a security guarantee.
type Strength string

const (
	StrengthStrong Strength = "strong"
	StrengthMedium Strength = "medium"
	StrengthWeak   Strength = "weak"
)

// PasswordCheck is the result of ValidatePassword.
type PasswordCheck struct {
	Valid    bool
	Errors   []string
	Strength Strength
}

// Local part limited to [A-Za-z0-9._%+-]; domain is dot-separated labels with no
// leading, trailing, or consecutive dots; final label is >=2 alphabetic characters.
var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*\.[A-Za-z]{2,}$`)

// ValidateEmail reports whether s is a syntactically well-formed address.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidatePassword checks s against the fixed policy: minimum length plus one
// uppercase, one lowercase, one digit, and one character from SpecialChars.
// Each unmet rule contributes one message, independent of the others.
// Strength: 0 errors -> strong, 1-2 -> medium, >=3 -> weak.
func ValidatePassword(s string) PasswordCheck {
	var errs []string
	if len(s) < MinPasswordLength {
		errs = append(errs, msgLength)
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			if containsRune(SpecialChars, r) {
				hasSpecial = true
			}
		}
	}
	if !hasUpper {
		errs = append(errs, msgUpper)
	}
	if !hasLower {
		errs = append(errs, msgLower)
	}
	if !hasDigit {
		errs = append(errs, msgDigit)
	}
	if !hasSpecial {
		errs = append(errs, msgSpecial)
	}

	strength := StrengthStrong
	switch {
	case len(errs) >= 3:
		strength = StrengthWeak
	case len(errs) >= 1:
		strength = StrengthMedium
	}

	return PasswordCheck{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Strength: strength,
	}
}

func containsRune(set string, r rune) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}
