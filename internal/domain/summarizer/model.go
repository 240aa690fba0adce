package summarizer

import (
	"context"
	"time"

	"github.com/yanqian/content-digest/pkg/metrics"
)

// Strategy names reported in pipeline results.
const (
	StrategyExtractive = "extractive"
	StrategyRemote     = "remote"
)

// CodeBackendUnavailable marks transport level failures of the remote backend.
const CodeBackendUnavailable = "backend_unavailable"

// Strategy reduces normalized text to a summary.
// The set is closed: *Extractive and *Remote are the only implementations.
type Strategy interface {
	Name() string
	Summarize(ctx context.Context, text string) (Summary, error)
	sealed()
}

// Summary is the output of a strategy run.
type Summary struct {
	Text  string
	Usage metrics.TokenUsage
	// Calls counts backend requests issued, including failed ones.
	Calls int
	// Degraded marks output that contains placeholders for failed chunks.
	Degraded bool
}

// Completion is a single backend answer.
type Completion struct {
	Text  string
	Usage metrics.TokenUsage
}

// Backend is the remote abstractive summarization endpoint.
type Backend interface {
	Summarize(ctx context.Context, text string) (Completion, error)
}

// RemoteConfig bounds the remote strategy.
type RemoteConfig struct {
	// MaxWords is the per-call input ceiling in words.
	MaxWords int
	// MaxDepth bounds the number of reduce passes over merged chunk summaries.
	MaxDepth       int
	CallTimeout    time.Duration
	CallsPerSecond float64
}

func (c RemoteConfig) withDefaults() RemoteConfig {
	if c.MaxWords <= 0 {
		c.MaxWords = 500
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = 3
	}
	return c
}
