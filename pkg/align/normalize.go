// Package align matches authored phrases against spoken word timings.
package align

import "strings"

// Normalize lower-cases token and strips every character outside [a-z0-9].
// It returns "" when nothing remains.
func Normalize(token string) string {
	lower := strings.ToLower(token)
	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize splits phrase on whitespace and normalizes each piece, dropping empties.
func Tokenize(phrase string) []string {
	fields := strings.Fields(phrase)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if tok := Normalize(f); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
