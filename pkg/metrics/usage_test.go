package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenUsageAdd(t *testing.T) {
	total := TokenUsage{PromptTokens: 10, CompletionTokens: 2, TotalTokens: 12}.
		Add(TokenUsage{PromptTokens: 5, CompletionTokens: 1, TotalTokens: 6})

	require.Equal(t, TokenUsage{PromptTokens: 15, CompletionTokens: 3, TotalTokens: 18}, total)
	require.False(t, total.IsZero())
	require.NotNil(t, total.Ptr())
	require.Nil(t, TokenUsage{}.Ptr())
}

func TestEstimateFromWords(t *testing.T) {
	require.Equal(t, 0, estimateFromWords(""))
	require.Equal(t, 4, estimateFromWords("one two three"))
	require.Equal(t, 1, estimateFromWords("single"))
}

func TestTokenCounterEmptyText(t *testing.T) {
	var nilCounter *TokenCounter
	require.Equal(t, 0, NewTokenCounter("gpt-4o-mini").Count("   "))
	require.Equal(t, 4, nilCounter.Count("one two three"))
}
