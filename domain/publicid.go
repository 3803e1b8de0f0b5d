package domain

import (
	"strings"
	"unicode"
)

// PublicID derives the IQ application public id from a repository name. The
// mapping is deterministic so repeated runs address the same application:
// lower-case, spaces become dashes, characters outside letters, digits, '.',
// '_' and '-' are dropped, dash runs collapse, edge dashes are trimmed.
func PublicID(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(lowered))
	prevDash := false
	for _, r := range lowered {
		switch {
		case r == ' ' || r == '-':
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		case r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		}
	}

	return strings.Trim(b.String(), "-")
}
