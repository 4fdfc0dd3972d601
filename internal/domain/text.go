package domain

import "strings"

// FirstNonBlank returns the first of vals that is not empty after trimming,
// trimmed. Placeholder and title fallbacks are expressed with it.
func FirstNonBlank(vals ...string) string {
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	return ""
}
