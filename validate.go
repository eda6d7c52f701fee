package customer

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
)

// ValidateEmail reports whether s looks like local@domain.tld.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidatePhone accepts an optional leading + followed by at least ten
// digits, spaces or dashes.
func ValidatePhone(s string) bool {
	return phonePattern.MatchString(s)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validateInput applies the submit-time rules to one required input.
func validateInput(in Input) bool {
	if isBlank(in.Value) {
		return false
	}
	switch in.Type {
	case InputEmail:
		return ValidateEmail(in.Value)
	case InputTel:
		return ValidatePhone(in.Value)
	}
	return true
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
