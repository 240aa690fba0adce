package summarizer

import (
	"context"
	"strings"
)

// sentences at or below this count are returned untouched
const extractiveThreshold = 4

// Extractive selects representative sentences. It is local and never fails.
type Extractive struct{}

// NewExtractive constructs the rule based strategy.
func NewExtractive() *Extractive {
	return &Extractive{}
}

func (*Extractive) Name() string { return StrategyExtractive }

func (*Extractive) Summarize(_ context.Context, text string) (Summary, error) {
	return Summary{Text: ExtractiveSummary(text)}, nil
}

func (*Extractive) sealed() {}

// ExtractiveSummary keeps the first sentence, evenly spaced interior sentences
// and the last sentence. The result is never longer than text.
func ExtractiveSummary(text string) string {
	sentences := splitSentences(text)
	if len(sentences) <= extractiveThreshold {
		return text
	}
	n := len(sentences)
	candidates := [][]int{
		{0, n / 3, 2 * n / 3, n - 1},
		{0, n / 2, n - 1},
		{0, n - 1},
	}
	var summary string
	for _, picks := range candidates {
		summary = joinSentences(sentences, dedupe(picks))
		if len(summary) <= len(text) {
			break
		}
	}
	return summary
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func joinSentences(sentences []string, picks []int) string {
	selected := make([]string, 0, len(picks))
	for _, idx := range picks {
		selected = append(selected, sentences[idx])
	}
	return strings.Join(selected, ". ") + "."
}

// picks are ascending already; drop repeats produced by small n
func dedupe(picks []int) []int {
	out := picks[:0:0]
	for i, p := range picks {
		if i > 0 && p == picks[i-1] {
			continue
		}
		out = append(out, p)
	}
	return out
}
