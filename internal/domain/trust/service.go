package trust

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yanqian/content-digest/internal/domain/content"
	"github.com/yanqian/content-digest/internal/infra/llm/chatgpt"
)

const defaultPrompt = `You judge whether a news text is likely reliable. Reply with a single JSON object and nothing else, using exactly these keys: "isTrusted" (boolean), "confidence" (number between 0 and 1), "reasoning" (one or two short sentences).`

// Service classifies texts as trusted or not. It never fails.
type Service interface {
	Classify(ctx context.Context, text string) Verdict
}

// ChatClient is the subset of the chat client used for remote classification.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg     Config
	sources *TrustedSources
	client  ChatClient
	logger  *slog.Logger
}

// NewService is a wire provider for the trust classifier.
func NewService(cfg Config, sources *TrustedSources, client ChatClient, logger *slog.Logger) Service {
	if sources == nil {
		sources = DefaultTrustedSources
	}
	if strings.TrimSpace(cfg.Prompt) == "" {
		cfg.Prompt = defaultPrompt
	}
	return &service{cfg: cfg, sources: sources, client: client, logger: logger.With("component", "trust.service")}
}

func (s *service) Classify(ctx context.Context, text string) Verdict {
	normalized := content.Normalize(text)
	if name, ok := s.sources.Match(normalized); ok {
		v := verdict(true, allowlistConfidence, fmt.Sprintf("Matched trusted source: %s", name))
		v.Source = name
		return v
	}
	if s.cfg.Mode != ModeRemote || s.client == nil || normalized == "" {
		return heuristicVerdict(normalized)
	}
	return s.classifyRemote(ctx, normalized)
}

func (s *service) classifyRemote(ctx context.Context, text string) Verdict {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		JSONMode:    true,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.cfg.Prompt},
			{Role: "user", Content: content.ClipWords(text, maxPromptWords)},
		},
	})
	if err != nil {
		s.logger.Warn("remote trust classification failed", "error", err)
		return Unavailable()
	}
	v, err := decodeVerdict(resp.Content())
	if err != nil {
		s.logger.Warn("remote trust reply malformed", "error", err)
		return Unavailable()
	}
	return v
}
