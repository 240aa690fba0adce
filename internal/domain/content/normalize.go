package content

import (
	"strings"
	"unicode"
)

// Normalize collapses every whitespace run to one space and trims the ends.
// Non-whitespace control characters are dropped. Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsControl(r), r == '\uFEFF':
			continue
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WordCount counts the single-space separated words of normalized text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ClipWords keeps at most max words of text.
func ClipWords(text string, max int) string {
	words := strings.Fields(text)
	if max <= 0 || len(words) <= max {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:max], " ")
}
