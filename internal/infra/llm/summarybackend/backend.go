package summarybackend

import (
	"context"
	"errors"
	"strings"

	"github.com/yanqian/content-digest/internal/domain/summarizer"
	"github.com/yanqian/content-digest/internal/infra/llm/chatgpt"
)

const defaultPrompt = "You are a news summarization engine. Summarize the user's text in a few sentences. Keep names, numbers and the order of events. Reply with the summary only."

// ChatClient is the subset of the chat client used for summarization.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Config selects the model and instruction used for each call.
type Config struct {
	Model       string
	Temperature float32
	Prompt      string
}

// Backend adapts a chat completion endpoint to summarizer.Backend.
type Backend struct {
	cfg    Config
	client ChatClient
}

// New builds a summarization backend over chat completions.
func New(cfg Config, client ChatClient) *Backend {
	if strings.TrimSpace(cfg.Prompt) == "" {
		cfg.Prompt = defaultPrompt
	}
	return &Backend{cfg: cfg, client: client}
}

// Summarize implements summarizer.Backend.
func (b *Backend) Summarize(ctx context.Context, text string) (summarizer.Completion, error) {
	resp, err := b.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       b.cfg.Model,
		Temperature: b.cfg.Temperature,
		Messages: []chatgpt.Message{
			{Role: "system", Content: b.cfg.Prompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return summarizer.Completion{}, err
	}
	summary := resp.Content()
	if summary == "" {
		return summarizer.Completion{Usage: resp.Usage}, errors.New("chatgpt returned no summary")
	}
	return summarizer.Completion{Text: summary, Usage: resp.Usage}, nil
}

var _ summarizer.Backend = (*Backend)(nil)
