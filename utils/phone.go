package utils

import (
	"fmt"
	"os"
	"strings"
)

// DefaultCountryPrefix is prepended to national numbers that arrive without a
// country code. Override with PHONE_DEFAULT_PREFIX (e.g. "+49").
func DefaultCountryPrefix() string {
	if v := strings.TrimSpace(os.Getenv("PHONE_DEFAULT_PREFIX")); v != "" {
		return v
	}
	return "+1"
}

// NormalizePhone canonicalizes a caller-supplied phone number to an
// E.164-style "+<digits>" string:
//   - separators (spaces, dashes, dots, parens, slashes) are stripped
//   - a leading "00" international prefix becomes "+"
//   - a bare national number gets DefaultCountryPrefix
//
// Returns an error for inputs that are too short, too long, or contain
// anything other than digits after stripping.
func NormalizePhone(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty phone number")
	}

	hasPlus := strings.HasPrefix(s, "+")
	if hasPlus {
		s = s[1:]
	}

	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' || r == '/':
			// separator, drop
		default:
			return "", fmt.Errorf("invalid character %q in phone number", r)
		}
	}
	d := digits.String()

	if !hasPlus && strings.HasPrefix(d, "00") {
		d = d[2:]
		hasPlus = true
	}

	if len(d) < 7 || len(d) > 15 {
		return "", fmt.Errorf("phone number has %d digits, expected 7-15", len(d))
	}

	if hasPlus {
		return "+" + d, nil
	}
	// National number without country code.
	return DefaultCountryPrefix() + d, nil
}
