package http

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/content-digest/internal/infra/config"
)

// JSON bodies above this size are served once without replay.
const retryBodyLimit = 1 << 20

// retrier replays small JSON POSTs whose first attempts end in a 5xx.
// Multipart uploads and excluded paths pass straight through.
type retrier struct {
	next        http.Handler
	maxAttempts int
	backoff     time.Duration
	exclude     map[string]struct{}
	logger      *slog.Logger
}

func withRetry(next http.Handler, cfg config.RetryConfig, logger *slog.Logger) http.Handler {
	if !cfg.Enabled || cfg.MaxAttempts <= 1 {
		return next
	}
	exclude := make(map[string]struct{}, len(cfg.Exclude))
	for _, path := range cfg.Exclude {
		exclude[path] = struct{}{}
	}
	return &retrier{
		next:        next,
		maxAttempts: cfg.MaxAttempts,
		backoff:     cfg.BaseBackoff,
		exclude:     exclude,
		logger:      logger.With("component", "http.retry"),
	}
}

func (rt *retrier) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !rt.replayable(r) {
		rt.next.ServeHTTP(w, r)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, retryBodyLimit+1))
	r.Body.Close()
	if err != nil {
		writeError(w, badRequest(err))
		return
	}
	if len(body) > retryBodyLimit {
		writeError(w, NewHTTPError(http.StatusRequestEntityTooLarge, "request_too_large", "request body is too large", nil))
		return
	}

	for attempt := 1; ; attempt++ {
		buf := newBufferedResponse()
		req := r.Clone(r.Context())
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.ContentLength = int64(len(body))
		rt.next.ServeHTTP(buf, req)

		if buf.status < http.StatusInternalServerError || attempt >= rt.maxAttempts || !rt.wait(r, attempt) {
			buf.flushTo(w)
			return
		}
		rt.logger.Warn("transient failure, retrying request", "path", r.URL.Path, "status", buf.status, "attempt", attempt)
	}
}

func (rt *retrier) replayable(r *http.Request) bool {
	if r.Method != http.MethodPost || r.Body == nil {
		return false
	}
	if _, skip := rt.exclude[r.URL.Path]; skip {
		return false
	}
	return !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/")
}

// wait sleeps with exponential backoff and reports false when the client went away.
func (rt *retrier) wait(r *http.Request, attempt int) bool {
	delay := rt.backoff * time.Duration(1<<(attempt-1))
	if delay <= 0 {
		return r.Context().Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-r.Context().Done():
		return false
	}
}

// bufferedResponse holds one attempt's response until it is known to be final.
type bufferedResponse struct {
	header http.Header
	body   bytes.Buffer
	status int
	wrote  bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{header: make(http.Header), status: http.StatusOK}
}

func (b *bufferedResponse) Header() http.Header { return b.header }

func (b *bufferedResponse) WriteHeader(status int) {
	if b.wrote {
		return
	}
	b.status = status
	b.wrote = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.wrote = true
	return b.body.Write(p)
}

func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) {
	dst := w.Header()
	for k, values := range b.header {
		dst[k] = append([]string(nil), values...)
	}
	w.WriteHeader(b.status)
	if b.body.Len() > 0 {
		_, _ = w.Write(b.body.Bytes())
	}
}
