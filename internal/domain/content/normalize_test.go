package content

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapses runs", in: "  hello \t\n  world  ", want: "hello world"},
		{name: "control characters dropped", in: "a\x01b\x00c", want: "abc"},
		{name: "unicode spaces", in: "one\u00a0\u3000two", want: "one two"},
		{name: "byte order mark", in: "\uFEFFtitle", want: "title"},
		{name: "only whitespace", in: " \r\n\t ", want: ""},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune{'a', 'b', ' ', ' ', '\t', '\n', '\r', '\x02', '.', 'é', ' '}
	for i := 0; i < 500; i++ {
		n := rng.Intn(40)
		var b strings.Builder
		for j := 0; j < n; j++ {
			b.WriteRune(alphabet[rng.Intn(len(alphabet))])
		}
		once := Normalize(b.String())
		require.Equal(t, once, Normalize(once))
		require.NotContains(t, once, "  ")
		require.Equal(t, strings.TrimSpace(once), once)
	}
}

func TestClipWords(t *testing.T) {
	require.Equal(t, "a b", ClipWords("a b c", 2))
	require.Equal(t, "a b c", ClipWords("a  b c", 5))
	require.Equal(t, "a b c", ClipWords("a b c", 0))
	require.Equal(t, 3, WordCount("a b c"))
	require.Equal(t, 0, WordCount(""))
}
