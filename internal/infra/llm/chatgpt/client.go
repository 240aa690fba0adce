package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/content-digest/pkg/metrics"
)

// ErrNotConfigured is returned by a nil client, which stands in when no API key is set.
var ErrNotConfigured = errors.New("chatgpt client is not configured")

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultTimeout = 60 * time.Second
)

// Message mirrors the OpenAI chat message structure.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the payload sent to the chat completion API.
type ChatCompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float32
	// JSONMode asks the model for a single JSON object.
	JSONMode  bool
	MaxTokens int
}

// Choice is one candidate reply.
type Choice struct {
	Message      Message
	FinishReason string
}

// ChatCompletionResponse captures the response for non streaming calls.
type ChatCompletionResponse struct {
	Choices []Choice
	Usage   metrics.TokenUsage
}

// Content returns the trimmed text of the first choice.
func (r ChatCompletionResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}

// Client performs chat completion calls against an OpenAI compatible API.
type Client struct {
	api    *openai.Client
	tokens *metrics.TokenCounter
}

// NewClient constructs a chat client. Every call is bounded by timeout.
// model selects the tokenizer used when the server omits usage.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("chatgpt api key cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	conf := openai.DefaultConfig(apiKey)
	conf.BaseURL = strings.TrimRight(baseURL, "/")
	conf.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{
		api:    openai.NewClientWithConfig(conf),
		tokens: metrics.NewTokenCounter(model),
	}, nil
}

// WarmTokenizer preloads the tokenizer used for usage estimates.
func (c *Client) WarmTokenizer() {
	if c == nil {
		return
	}
	c.tokens.Warm()
}

// CreateChatCompletion triggers a sync chat completion call.
func (c *Client) CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	if c == nil {
		return ChatCompletionResponse{}, ErrNotConfigured
	}
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	apiReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.JSONMode {
		apiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return ChatCompletionResponse{}, describe(err)
	}

	out := ChatCompletionResponse{
		Choices: make([]Choice, 0, len(resp.Choices)),
		Usage: metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	for _, choice := range resp.Choices {
		out.Choices = append(out.Choices, Choice{
			Message:      Message{Role: choice.Message.Role, Content: choice.Message.Content},
			FinishReason: string(choice.FinishReason),
		})
	}
	// some compatible servers omit usage
	if out.Usage.IsZero() {
		out.Usage = c.tokens.Estimate(joinContents(req.Messages), out.Content())
	}
	return out, nil
}

func describe(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chatgpt request failed: status=%d: %w", apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("chatgpt request failed: status=%d: %w", reqErr.HTTPStatusCode, err)
	}
	return fmt.Errorf("request chat completion: %w", err)
}

func joinContents(messages []Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, "\n")
}
