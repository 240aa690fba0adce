package trust

import "strings"

var defaultSourceNames = []string{
	"reuters",
	"associated press",
	"ap news",
	"bbc",
	"national public radio",
	"pbs newshour",
	"the guardian",
	"new york times",
	"washington post",
	"wall street journal",
	"bloomberg",
	"financial times",
	"the economist",
	"al jazeera",
	"deutsche welle",
	"agence france-presse",
}

// DefaultTrustedSources is built once at startup and never mutated.
var DefaultTrustedSources = NewTrustedSources()

// TrustedSources is a frozen, ordered set of lowercase publisher names.
// It is safe for concurrent use.
type TrustedSources struct {
	names []string
}

// NewTrustedSources freezes the default names plus extras.
// Names are lowercased, trimmed and deduplicated; order is preserved.
func NewTrustedSources(extra ...string) *TrustedSources {
	all := append(append([]string{}, defaultSourceNames...), extra...)
	seen := make(map[string]struct{}, len(all))
	names := make([]string, 0, len(all))
	for _, name := range all {
		clean := strings.ToLower(strings.Join(strings.Fields(name), " "))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		names = append(names, clean)
	}
	return &TrustedSources{names: names}
}

// Match returns the first name contained in text.
func (s *TrustedSources) Match(text string) (string, bool) {
	lowered := strings.ToLower(text)
	for _, name := range s.names {
		if strings.Contains(lowered, name) {
			return name, true
		}
	}
	return "", false
}

// Names returns a copy of the set in match order.
func (s *TrustedSources) Names() []string {
	return append([]string(nil), s.names...)
}
