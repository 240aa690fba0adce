package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/yanqian/content-digest/internal/domain/content"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
)

// errRateLimited means the pacing limiter could not grant a call before the
// context deadline. No later call can succeed either.
var errRateLimited = errors.New("rate limiter wait failed")

// Remote summarizes through an abstractive backend with a per-call word ceiling.
// Long inputs are chunked, summarized in order, merged and reduced again.
type Remote struct {
	cfg      RemoteConfig
	backend  Backend
	fallback *Extractive
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewRemote is a wire provider for the remote strategy.
func NewRemote(cfg RemoteConfig, backend Backend, logger *slog.Logger) *Remote {
	cfg = cfg.withDefaults()
	limit := rate.Inf
	if cfg.CallsPerSecond > 0 {
		limit = rate.Limit(cfg.CallsPerSecond)
	}
	return &Remote{
		cfg:      cfg,
		backend:  backend,
		fallback: NewExtractive(),
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With("component", "summarizer.remote"),
	}
}

func (*Remote) Name() string { return StrategyRemote }

func (*Remote) sealed() {}

// Summarize returns a backend_unavailable error when no backend call succeeded.
func (r *Remote) Summarize(ctx context.Context, text string) (Summary, error) {
	text = content.Normalize(text)
	var out Summary
	if text == "" {
		return out, nil
	}

	merged, err := r.mapChunks(ctx, text, &out)
	if err != nil {
		return out, err
	}
	reduced, err := r.reduce(ctx, merged, 1, &out)
	if err != nil {
		return out, err
	}
	out.Text = reduced
	return out, nil
}

func (r *Remote) mapChunks(ctx context.Context, text string, acc *Summary) (string, error) {
	if content.WordCount(text) <= r.cfg.MaxWords {
		summary, err := r.call(ctx, text, acc)
		if err != nil {
			return "", unavailable(err)
		}
		return summary, nil
	}

	chunks := content.ChunkWords(text, r.cfg.MaxWords)
	parts := make([]string, len(chunks))
	var (
		failed  int
		lastErr error
	)
	for _, chunk := range chunks {
		summary, err := r.call(ctx, chunk.Text(), acc)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", unavailable(ctxErr)
			}
			if errors.Is(err, errRateLimited) {
				return "", unavailable(err)
			}
			r.logger.Warn("chunk summarization failed", "chunk", chunk.Index, "chunks", len(chunks), "error", err)
			parts[chunk.Index] = placeholder(chunk.Index)
			failed++
			lastErr = err
			continue
		}
		parts[chunk.Index] = summary
	}
	if failed == len(chunks) {
		return "", unavailable(lastErr)
	}
	acc.Degraded = failed > 0
	r.logger.Debug("chunks summarized", "chunks", len(chunks), "failed", failed)
	return content.Normalize(strings.Join(parts, " ")), nil
}

// reduce issues one backend call per pass until the text fits the ceiling.
func (r *Remote) reduce(ctx context.Context, text string, depth int, acc *Summary) (string, error) {
	words := content.WordCount(text)
	if words <= r.cfg.MaxWords {
		return text, nil
	}
	if depth > r.cfg.MaxDepth {
		r.logger.Warn("reduce depth exhausted, using extractive fallback", "depth", depth-1, "words", words)
		return r.settle(text), nil
	}

	summary, err := r.call(ctx, text, acc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", unavailable(ctxErr)
		}
		if errors.Is(err, errRateLimited) {
			return "", unavailable(err)
		}
		r.logger.Warn("reduce pass failed, using extractive fallback", "depth", depth, "error", err)
		return r.settle(text), nil
	}
	if content.WordCount(summary) >= words {
		r.logger.Warn("reduce pass did not shrink text, using extractive fallback", "depth", depth, "words", words)
		return r.settle(text), nil
	}
	return r.reduce(ctx, summary, depth+1, acc)
}

func (r *Remote) call(ctx context.Context, text string, acc *Summary) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", errRateLimited, err)
	}
	callCtx := ctx
	if r.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.CallTimeout)
		defer cancel()
	}

	acc.Calls++
	completion, err := r.backend.Summarize(callCtx, text)
	acc.Usage = acc.Usage.Add(completion.Usage)
	if err != nil {
		return "", err
	}
	summary := content.Normalize(completion.Text)
	if summary == "" {
		return "", errors.New("backend returned an empty summary")
	}
	return summary, nil
}

func (r *Remote) settle(text string) string {
	return content.ClipWords(ExtractiveSummary(text), r.cfg.MaxWords)
}

func placeholder(index int) string {
	return fmt.Sprintf("[summary unavailable for part %d]", index+1)
}

func unavailable(err error) error {
	return apperrors.Wrap(CodeBackendUnavailable, "summarization backend unavailable", err)
}
