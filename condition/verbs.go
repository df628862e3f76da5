package condition

import (
	"fmt"
	"strconv"
	"strings"
)

// Compare applies verb to the live field value lhs and the clause value rhs.
// Numeric verbs parse the leading integer of each side; text that does not
// start with an integer counts as 0.
func Compare(verb Verb, lhs, rhs string) (bool, error) {
	switch verb {
	case VerbIs:
		return lhs == rhs, nil
	case VerbNot:
		return lhs != rhs, nil
	case VerbContains:
		return strings.Contains(lhs, rhs), nil
	case VerbLessThan:
		return ParseInt(lhs) < ParseInt(rhs), nil
	case VerbLessThanOrEqualTo:
		return ParseInt(lhs) <= ParseInt(rhs), nil
	case VerbGreaterThan:
		return ParseInt(lhs) > ParseInt(rhs), nil
	case VerbGreaterThanOrEqualTo:
		return ParseInt(lhs) >= ParseInt(rhs), nil
	}
	return false, fmt.Errorf("condition: unknown verb %q", verb)
}

// ParseInt reads an optional sign and the leading decimal digits of s.
func ParseInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
