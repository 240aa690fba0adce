package content

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkWordsCompleteness(t *testing.T) {
	for _, total := range []int{1, 2, 7, 100, 1200} {
		words := make([]string, total)
		for i := range words {
			words[i] = fmt.Sprintf("w%d", i)
		}
		text := strings.Join(words, " ")
		for _, max := range []int{1, 3, 500, 5000} {
			chunks := ChunkWords(text, max)
			require.NotEmpty(t, chunks)

			var rebuilt []string
			for i, c := range chunks {
				require.Equal(t, i, c.Index)
				require.LessOrEqual(t, len(c.Words), max)
				require.NotEmpty(t, c.Words)
				rebuilt = append(rebuilt, c.Words...)
			}
			require.Equal(t, words, rebuilt, "total=%d max=%d", total, max)
		}
	}
}

func TestChunkWordsShapes(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 1200))
	chunks := ChunkWords(text, 500)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0].Words, 500)
	require.Len(t, chunks[1].Words, 500)
	require.Len(t, chunks[2].Words, 200)
}

func TestChunkWordsEdgeCases(t *testing.T) {
	require.Empty(t, ChunkWords("", 10))
	require.Empty(t, ChunkWords("   ", 10))

	chunks := ChunkWords("a b", 0)
	require.Len(t, chunks, 2)
	require.Equal(t, "a", chunks[0].Text())

	// appending to one chunk must not clobber the next
	chunks = ChunkWords("a b c d", 2)
	_ = append(chunks[0].Words, "x")
	require.Equal(t, "c d", chunks[1].Text())
}

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		in      string
		want    SourceKind
		wantErr bool
	}{
		{in: "text", want: KindPlainText},
		{in: " PDF ", want: KindDocument},
		{in: "url", want: KindWebPage},
		{in: "youtube", want: KindVideoReference},
		{in: "audio", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSourceKind(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				require.False(t, got.Valid())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.True(t, got.Valid())
		})
	}
}
