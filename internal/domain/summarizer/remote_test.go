package summarizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/content-digest/internal/domain/content"
	apperrors "github.com/yanqian/content-digest/pkg/errors"
	"github.com/yanqian/content-digest/pkg/metrics"
)

func TestRemoteChunkMergeReduce(t *testing.T) {
	text := numberedWords(1200)
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			if call <= 3 {
				// each chunk summary is 200 words so the merge overflows
				return Completion{Text: repeatWord(fmt.Sprintf("c%d", call), 200)}, nil
			}
			return Completion{Text: "final summary"}, nil
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 500})

	out, err := remote.Summarize(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, "final summary", out.Text)
	require.Equal(t, 4, out.Calls)
	require.Len(t, backend.inputs, 4)

	require.Equal(t, 500, content.WordCount(backend.inputs[0]))
	require.True(t, strings.HasPrefix(backend.inputs[0], "w0 "))
	require.True(t, strings.HasPrefix(backend.inputs[1], "w500 "))
	require.True(t, strings.HasPrefix(backend.inputs[2], "w1000 "))
	require.Equal(t, 200, content.WordCount(backend.inputs[2]))

	merged := backend.inputs[3]
	require.Equal(t, 600, content.WordCount(merged))
	require.True(t, strings.HasPrefix(merged, "c1 "))
	require.True(t, strings.HasSuffix(merged, " c3"))
	require.Less(t, strings.Index(merged, "c2"), strings.Index(merged, "c3"))
}

func TestRemoteNoReduceWhenMergeFits(t *testing.T) {
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			return Completion{Text: fmt.Sprintf("part%d", call), Usage: metrics.TokenUsage{PromptTokens: 10, TotalTokens: 12, CompletionTokens: 2}}, nil
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 500})

	out, err := remote.Summarize(context.Background(), numberedWords(1200))
	require.NoError(t, err)
	require.Equal(t, "part1 part2 part3", out.Text)
	require.Equal(t, 3, out.Calls)
	require.Equal(t, metrics.TokenUsage{PromptTokens: 30, CompletionTokens: 6, TotalTokens: 36}, out.Usage)
}

func TestRemoteShortTextSingleCall(t *testing.T) {
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			return Completion{Text: "  short\n summary "}, nil
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 500})

	out, err := remote.Summarize(context.Background(), "a handful of words")
	require.NoError(t, err)
	require.Equal(t, "short summary", out.Text)
	require.Equal(t, []string{"a handful of words"}, backend.inputs)
}

func TestRemoteChunkFailureUsesPlaceholder(t *testing.T) {
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			if call == 2 {
				return Completion{}, errors.New("rate limited")
			}
			return Completion{Text: fmt.Sprintf("ok%d", call)}, nil
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 10})

	out, err := remote.Summarize(context.Background(), numberedWords(30))
	require.NoError(t, err)
	require.Equal(t, "ok1 [summary unavailable for part 2] ok3", out.Text)
	require.Equal(t, 3, out.Calls)
	require.True(t, out.Degraded)
}

func TestRemoteCleanRunIsNotDegraded(t *testing.T) {
	remote := newRemoteUnderTest(&stubBackend{}, RemoteConfig{MaxWords: 10})
	out, err := remote.Summarize(context.Background(), numberedWords(30))
	require.NoError(t, err)
	require.False(t, out.Degraded)
}

func TestRemoteLimiterDeadlineAborts(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	backend := &stubBackend{}
	// the second token would arrive long after the deadline
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 10, CallsPerSecond: 0.001})

	out, err := remote.Summarize(ctx, numberedWords(30))
	require.True(t, apperrors.IsCode(err, CodeBackendUnavailable))
	require.ErrorIs(t, err, errRateLimited)
	require.NoError(t, ctx.Err())
	require.Equal(t, 1, backend.calls)
	require.Empty(t, out.Text)
}

func TestRemoteAllChunksFailIsBackendUnavailable(t *testing.T) {
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			return Completion{}, errors.New("401 unauthorized")
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 10})

	_, err := remote.Summarize(context.Background(), numberedWords(25))
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, CodeBackendUnavailable))
	require.Equal(t, 3, backend.calls)

	_, err = remote.Summarize(context.Background(), "short input")
	require.True(t, apperrors.IsCode(err, CodeBackendUnavailable))
}

func TestRemoteNonConvergingBackendFallsBack(t *testing.T) {
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			// echoes the input, never shrinking it
			return Completion{Text: input + ". Again"}, nil
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 10, MaxDepth: 3})

	out, err := remote.Summarize(context.Background(), numberedWords(30))
	require.NoError(t, err)
	require.LessOrEqual(t, content.WordCount(out.Text), 10)
	// three chunk calls and a single reduce attempt
	require.Equal(t, 4, out.Calls)
}

func TestRemoteDepthBound(t *testing.T) {
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			// shrink by a single word per call so the reducer never converges under the ceiling
			words := strings.Fields(input)
			if len(words) > 12 {
				return Completion{Text: strings.Join(words[:12], " ")}, nil
			}
			return Completion{Text: strings.Join(words[:len(words)-1], " ")}, nil
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 5, MaxDepth: 2})

	out, err := remote.Summarize(context.Background(), numberedWords(30))
	require.NoError(t, err)
	require.LessOrEqual(t, content.WordCount(out.Text), 5)
	// six chunk calls plus exactly MaxDepth reduce calls
	require.Equal(t, 8, out.Calls)
}

func TestRemoteContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	backend := &stubBackend{
		fn: func(call int, input string) (Completion, error) {
			cancel()
			return Completion{}, context.Canceled
		},
	}
	remote := newRemoteUnderTest(backend, RemoteConfig{MaxWords: 10})

	_, err := remote.Summarize(ctx, numberedWords(30))
	require.True(t, apperrors.IsCode(err, CodeBackendUnavailable))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, backend.calls)
}

func TestRemoteEmptyText(t *testing.T) {
	backend := &stubBackend{}
	out, err := newRemoteUnderTest(backend, RemoteConfig{}).Summarize(context.Background(), "  ")
	require.NoError(t, err)
	require.Empty(t, out.Text)
	require.Zero(t, backend.calls)
}

func newRemoteUnderTest(backend Backend, cfg RemoteConfig) *Remote {
	return NewRemote(cfg, backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubBackend struct {
	fn     func(call int, input string) (Completion, error)
	calls  int
	inputs []string
}

func (s *stubBackend) Summarize(ctx context.Context, text string) (Completion, error) {
	s.calls++
	s.inputs = append(s.inputs, text)
	if s.fn == nil {
		return Completion{Text: "summary"}, nil
	}
	return s.fn(s.calls, text)
}

func numberedWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func repeatWord(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}
