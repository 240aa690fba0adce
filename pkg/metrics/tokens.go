package metrics

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// TokenCounter estimates prompt sizes for backends that do not report usage.
// Until Warm has loaded an encoding it counts with a word based estimate.
type TokenCounter struct {
	model string
	once  sync.Once
	enc   atomic.Pointer[tiktoken.Tiktoken]
}

// NewTokenCounter builds a counter for the given model.
func NewTokenCounter(model string) *TokenCounter {
	return &TokenCounter{model: strings.TrimSpace(model)}
}

// Warm loads the BPE encoding in the background. tiktoken may download the
// ranks file on first use, so requests never wait on it.
func (c *TokenCounter) Warm() {
	if c == nil {
		return
	}
	c.once.Do(func() {
		go c.load()
	})
}

// Count returns the number of tokens in text.
func (c *TokenCounter) Count(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	if c == nil {
		return estimateFromWords(text)
	}
	enc := c.enc.Load()
	if enc == nil {
		return estimateFromWords(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// Estimate builds a TokenUsage from the prompt and completion texts.
func (c *TokenCounter) Estimate(prompt, completion string) TokenUsage {
	p := c.Count(prompt)
	r := c.Count(completion)
	return TokenUsage{PromptTokens: p, CompletionTokens: r, TotalTokens: p + r}
}

func (c *TokenCounter) load() {
	if c.model != "" {
		if enc, err := tiktoken.EncodingForModel(c.model); err == nil {
			c.enc.Store(enc)
			return
		}
	}
	if enc, err := tiktoken.GetEncoding(fallbackEncoding); err == nil {
		c.enc.Store(enc)
	}
}

// roughly 4 tokens for every 3 english words
func estimateFromWords(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}
