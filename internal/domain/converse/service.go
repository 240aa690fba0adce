package converse

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/content-digest/internal/infra/llm/chatgpt"
)

const (
	// UnavailableReply is returned on transport failure or an empty answer.
	UnavailableReply = "Sorry, the assistant is unavailable right now. Please try again later."
	// EmptyMessageReply is returned for blank messages without calling the backend.
	EmptyMessageReply = "Please enter a message."

	defaultSystemPrompt = "You are a helpful assistant for a news reading app. Answer clearly and concisely. When context is provided, base your answer on it."
)

// Config controls the conversational pass-through.
type Config struct {
	Model        string
	Temperature  float32
	SystemPrompt string
	Timeout      time.Duration
}

// Request is the chat payload.
type Request struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// Response wraps the assistant reply.
type Response struct {
	Response string `json:"response"`
}

// Service answers a single message. No history is kept between calls.
type Service interface {
	Reply(ctx context.Context, message, contextText string) string
}

// ChatClient is the subset of the chat client used for replies.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger
}

// NewService is a wire provider for the conversational domain.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	return &service{cfg: cfg, client: client, logger: logger.With("component", "converse.service")}
}

func (s *service) Reply(ctx context.Context, message, extra string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return EmptyMessageReply
	}
	if s.client == nil {
		return UnavailableReply
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Temperature: s.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: s.cfg.SystemPrompt},
			{Role: "user", Content: userTurn(message, extra)},
		},
	})
	if err != nil {
		s.logger.Warn("chat completion failed", "error", err)
		return UnavailableReply
	}
	reply := resp.Content()
	if reply == "" {
		s.logger.Warn("chat completion returned an empty reply")
		return UnavailableReply
	}
	return reply
}

func userTurn(message, extra string) string {
	extra = strings.TrimSpace(extra)
	if extra == "" {
		return message
	}
	return "Context:\n" + extra + "\n\nQuestion:\n" + message
}
