package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/yanqian/content-digest/internal/domain/content"
	"github.com/yanqian/content-digest/internal/domain/summarizer"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
	"github.com/yanqian/content-digest/pkg/util"
)

// Service runs extraction and summarization for one input.
type Service interface {
	// Run never fails: every path ends in a summary or a user-facing message.
	Run(ctx context.Context, kind content.SourceKind, in content.RawInput) Result
}

type service struct {
	cfg        Config
	extractors Extractors
	primary    summarizer.Strategy
	fallback   *summarizer.Extractive
	cache      ResultCache
	logger     *slog.Logger
	now        func() time.Time
}

// NewService is a wire provider for the orchestrator. remote may be nil when
// the extractive strategy is configured; cache may be nil to disable caching.
func NewService(cfg Config, extractors Extractors, remote *summarizer.Remote, cache ResultCache, logger *slog.Logger) Service {
	fallback := summarizer.NewExtractive()
	var primary summarizer.Strategy = fallback
	if cfg.Strategy == summarizer.StrategyRemote && remote != nil {
		primary = remote
	}
	return &service{
		cfg:        cfg,
		extractors: extractors,
		primary:    primary,
		fallback:   fallback,
		cache:      cache,
		logger:     logger.With("component", "pipeline.service"),
		now:        util.NowUTC,
	}
}

func (s *service) Run(ctx context.Context, kind content.SourceKind, in content.RawInput) Result {
	start := s.now()
	finish := func(r Result) Result {
		r.Kind = kind
		r.DurationMs = util.ElapsedMs(start, s.now)
		return r
	}

	extractor := s.extractors.forKind(kind)
	if extractor == nil {
		s.logger.Warn("no extractor for source kind", "kind", kind)
		return finish(failure(MessageUnsupportedKind))
	}
	if in.IsEmpty() {
		return finish(failure(MessageEmptyInput))
	}

	key := cacheKey(kind, s.primary.Name(), in)
	if cached, ok := s.lookup(ctx, key); ok {
		cached.Cached = true
		return finish(cached)
	}

	text, err := extractor.Extract(ctx, in)
	if err != nil {
		s.logger.Warn("extraction failed", "kind", kind, "code", apperrors.CodeOf(err), "error", err)
		return finish(failure(messageFor(err)))
	}
	text = content.Normalize(text)
	if text == "" {
		return finish(failure(MessageEmptyContent))
	}

	summary, strategy, err := s.summarize(ctx, text)
	if err != nil || summary.Text == "" {
		s.logger.Error("summarization failed", "kind", kind, "strategy", strategy, "error", err)
		return finish(failure(MessageSummaryFailed))
	}

	result := Result{
		Summary:    summary.Text,
		Strategy:   strategy,
		TokenUsage: summary.Usage.Ptr(),
	}
	if strategy == s.primary.Name() && !summary.Degraded {
		s.store(ctx, key, result)
	}
	s.logger.Info("summary produced", "kind", kind, "strategy", strategy, "words_in", content.WordCount(text), "words_out", content.WordCount(summary.Text), "backend_calls", summary.Calls)
	return finish(result)
}

// summarize falls back to the extractive strategy once when the backend is unavailable.
func (s *service) summarize(ctx context.Context, text string) (summarizer.Summary, string, error) {
	out, err := s.primary.Summarize(ctx, text)
	if err == nil {
		return out, s.primary.Name(), nil
	}
	if s.primary.Name() == summarizer.StrategyExtractive || !apperrors.IsCode(err, summarizer.CodeBackendUnavailable) {
		return out, s.primary.Name(), err
	}

	s.logger.Warn("remote summarization unavailable, falling back to extractive", "backend_calls", out.Calls, "error", err)
	fb, fbErr := s.fallback.Summarize(ctx, text)
	fb.Usage = out.Usage.Add(fb.Usage)
	fb.Calls += out.Calls
	return fb, s.fallback.Name(), fbErr
}

func (s *service) lookup(ctx context.Context, key string) (Result, bool) {
	if s.cache == nil {
		return Result{}, false
	}
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("summary cache read failed", "error", err)
		return Result{}, false
	}
	return cached, ok
}

func (s *service) store(ctx context.Context, key string, result Result) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("summary cache write failed", "error", err)
	}
}

func failure(message string) Result {
	return Result{Summary: message, Strategy: StrategyNone, Failed: true}
}
