package trust

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/content-digest/internal/infra/llm/chatgpt"
)

func TestClassifyAllowlistWinsWithoutRemoteCall(t *testing.T) {
	client := &stubChatClient{}
	svc := newServiceUnderTest(Config{Mode: ModeRemote}, client)

	got := svc.Classify(context.Background(), "Shocking!!! ...as reported by Reuters today, the vote was delayed.")
	require.True(t, got.IsTrusted)
	require.NotNil(t, got.Confidence)
	require.Equal(t, allowlistConfidence, *got.Confidence)
	require.Equal(t, "reuters", got.Source)
	require.Contains(t, got.Reasoning, "reuters")
	require.Zero(t, client.calls)
}

func TestClassifyAllowlistFirstMatchWins(t *testing.T) {
	svc := newServiceUnderTest(Config{}, nil)
	got := svc.Classify(context.Background(), "The BBC and Reuters both covered it")
	require.Equal(t, "reuters", got.Source)
}

func TestClassifyHeuristics(t *testing.T) {
	long := strings.Repeat("the council approved the budget after a long debate ", 4)
	tests := []struct {
		name       string
		text       string
		trusted    bool
		confidence float64
		reasoning  string
	}{
		{
			name:       "sensational",
			text:       "You won't believe this shocking miracle cure",
			confidence: sensationalConfidence,
			reasoning:  "Sensational language detected: you won't believe, shocking, miracle",
		},
		{
			name:       "too short",
			text:       "Council meets on Tuesday.",
			confidence: shortTextConfidence,
			reasoning:  "Not enough text to assess reliability.",
		},
		{
			name:       "empty",
			text:       "   ",
			confidence: shortTextConfidence,
			reasoning:  "Not enough text to assess reliability.",
		},
		{
			name:       "neutral",
			text:       long,
			trusted:    true,
			confidence: neutralConfidence,
			reasoning:  "No warning signs found, but the source is not recognised.",
		},
	}
	svc := newServiceUnderTest(Config{Mode: ModeHeuristic}, &stubChatClient{})
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := svc.Classify(context.Background(), tt.text)
			require.Equal(t, tt.trusted, got.IsTrusted)
			require.Equal(t, tt.confidence, *got.Confidence)
			require.Equal(t, tt.reasoning, got.Reasoning)
		})
	}
}

func TestClassifyRemote(t *testing.T) {
	client := &stubChatClient{content: "```json\n{\"isTrusted\": true, \"confidence\": 1.7, \"reasoning\": \"Neutral tone.\"}\n```"}
	svc := newServiceUnderTest(Config{Mode: ModeRemote, Model: "gpt-test"}, client)

	got := svc.Classify(context.Background(), "Local bakery wins regional prize")
	require.True(t, got.IsTrusted)
	require.Equal(t, 1.0, *got.Confidence)
	require.Equal(t, "Neutral tone.", got.Reasoning)
	require.Equal(t, 1, client.calls)
	require.True(t, client.last.JSONMode)
	require.Equal(t, "gpt-test", client.last.Model)
	require.Equal(t, defaultPrompt, client.last.Messages[0].Content)
}

func TestClassifyRemoteFailures(t *testing.T) {
	tests := []struct {
		name   string
		client *stubChatClient
	}{
		{name: "transport error", client: &stubChatClient{err: errors.New("429 too many requests")}},
		{name: "not json", client: &stubChatClient{content: "I think it is fine"}},
		{name: "bad field type", client: &stubChatClient{content: `{"isTrusted": {"nested": true}}`}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newServiceUnderTest(Config{Mode: ModeRemote}, tt.client)
			got := svc.Classify(context.Background(), "Some unverified claim about the weather")
			require.Equal(t, Unavailable(), got)
			require.False(t, got.IsTrusted)
			require.Equal(t, unavailableConfidence, *got.Confidence)
		})
	}
}

func TestTrustedSourcesFrozen(t *testing.T) {
	sources := NewTrustedSources("  Kyodo   News ", "REUTERS", "")
	names := sources.Names()
	require.Equal(t, "reuters", names[0])
	require.Equal(t, "kyodo news", names[len(names)-1])
	require.Equal(t, len(defaultSourceNames)+1, len(names))

	names[0] = "tampered"
	name, ok := sources.Match("via REUTERS wire")
	require.True(t, ok)
	require.Equal(t, "reuters", name)

	_, ok = DefaultTrustedSources.Match("kyodo news")
	require.False(t, ok)
}

func newServiceUnderTest(cfg Config, client *stubChatClient) Service {
	var chat ChatClient
	if client != nil {
		chat = client
	}
	return NewService(cfg, nil, chat, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type stubChatClient struct {
	content string
	err     error
	calls   int
	last    chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: s.content}}},
	}, nil
}
