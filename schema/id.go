package schema

import (
	"regexp"
	"strings"
)

var disallowedIDChars = regexp.MustCompile(`[^a-z0-9]`)

// SanitizeID lowercases input and replaces every character outside [a-z0-9]
// with an underscore.
func SanitizeID(input string) string {
	return disallowedIDChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(input)), "_")
}
