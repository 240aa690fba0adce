package summarizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractiveSummary(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "at threshold unchanged",
			text: "One. Two! Three? Four.",
			want: "One. Two! Three? Four.",
		},
		{
			name: "five sentences",
			text: "A. B. C. D. E.",
			want: "A. B. D. E.",
		},
		{
			name: "nine sentences",
			text: "S0. S1. S2. S3. S4. S5. S6. S7. S8.",
			want: "S0. S3. S6. S8.",
		},
		{
			name: "empty sentences dropped",
			text: "...",
			want: "...",
		},
		{
			name: "tight punctuation keeps length bound",
			text: "a!b!c!d!e",
			want: "a. c. e.",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ExtractiveSummary(tt.text))
		})
	}
}

func TestExtractiveSummaryLengthBound(t *testing.T) {
	for n := 1; n <= 40; n++ {
		sentences := make([]string, n)
		for i := range sentences {
			sentences[i] = strings.Repeat("x", i%3+1)
		}
		text := strings.Join(sentences, ". ") + "."
		got := ExtractiveSummary(text)
		if n <= extractiveThreshold {
			require.Equal(t, text, got)
			continue
		}
		require.Less(t, len(splitSentences(got)), n)
		require.LessOrEqual(t, len(got), len(text))
	}
}

func TestExtractiveStrategy(t *testing.T) {
	var strategy Strategy = NewExtractive()
	require.Equal(t, StrategyExtractive, strategy.Name())

	out, err := strategy.Summarize(context.Background(), "A. B. C. D. E.")
	require.NoError(t, err)
	require.Equal(t, "A. B. D. E.", out.Text)
	require.Zero(t, out.Calls)
}
