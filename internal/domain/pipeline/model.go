package pipeline

import (
	"time"

	"github.com/yanqian/content-digest/internal/domain/content"
	"github.com/yanqian/content-digest/pkg/metrics"
)

// Config selects the summarization strategy and caching behaviour.
type Config struct {
	// Strategy is summarizer.StrategyRemote or summarizer.StrategyExtractive.
	Strategy string
	CacheTTL time.Duration
}

// Request is the JSON summarization payload.
type Request struct {
	Kind  string `json:"kind" binding:"required"`
	Input string `json:"input"`
}

// Result is always produced; Failed marks a user-facing failure message.
type Result struct {
	Summary    string              `json:"summary"`
	Kind       content.SourceKind  `json:"kind"`
	Strategy   string              `json:"strategy"`
	Failed     bool                `json:"failed"`
	Cached     bool                `json:"cached,omitempty"`
	DurationMs int64               `json:"durationMs"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// StrategyNone is reported when no strategy ran.
const StrategyNone = "none"

// Extractors holds one extractor per source kind.
type Extractors struct {
	PlainText content.Extractor
	WebPage   content.Extractor
	Document  content.Extractor
	Video     content.Extractor
}

func (e Extractors) forKind(kind content.SourceKind) content.Extractor {
	switch kind {
	case content.KindPlainText:
		return e.PlainText
	case content.KindWebPage:
		return e.WebPage
	case content.KindDocument:
		return e.Document
	case content.KindVideoReference:
		return e.Video
	}
	return nil
}
