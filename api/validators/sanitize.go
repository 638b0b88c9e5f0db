package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the value at maxLen
// bytes. A maxLen of zero means unbounded.
func SanitizeString(input string, maxLen int) string {
	value := strings.TrimSpace(input)
	if maxLen <= 0 || len(value) <= maxLen {
		return value
	}
	return strings.TrimSpace(value[:maxLen])
}
