package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Violations maps a field name to a short machine-readable failure code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Good enough for an API boundary; real deliverability is not checked here.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Basic validators

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Email(field, value string, v Violations) {
	if value != "" && !emailPattern.MatchString(value) {
		v[field] = "invalid_email"
	}
}

func MinLen(field, value string, minLen int, v Violations) {
	if value != "" && len(value) < minLen {
		v[field] = fmt.Sprintf("min_length_%d", minLen)
	}
}

func MaxLen(field, value string, maxLen int, v Violations) {
	if len(value) > maxLen {
		v[field] = fmt.Sprintf("max_length_%d", maxLen)
	}
}

// Confirmed checks the value against its confirmation field
// (password + password_confirmation pattern).
func Confirmed(field, value, confirmation string, v Violations) {
	if value != confirmation {
		v[field] = "confirmation_mismatch"
	}
}

// OneOf restricts a value to a closed set.
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}

// IntRange restricts an integer to [minVal, maxVal].
func IntRange(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}
