package chatgpt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/content-digest/pkg/metrics"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("  ", "", "", 0)
	require.EqualError(t, err, "chatgpt api key cannot be empty")
}

func TestCreateChatCompletion(t *testing.T) {
	var got struct {
		Model          string    `json:"model"`
		Messages       []Message `json:"messages"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  hi there \n"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL+"/v1/", "gpt-test", time.Second)
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:    "gpt-test",
		JSONMode: true,
		Messages: []Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hello"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "hi there", resp.Content())
	require.Equal(t, "stop", resp.Choices[0].FinishReason)
	require.Equal(t, metrics.TokenUsage{PromptTokens: 12, CompletionTokens: 3, TotalTokens: 15}, resp.Usage)

	require.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 2)
	require.Equal(t, "user", got.Messages[1].Role)
	require.NotNil(t, got.ResponseFormat)
	require.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestCreateChatCompletionEstimatesMissingUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "one two three"}}]}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "", time.Second)
	require.NoError(t, err)

	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "count these six words right now"}},
	})
	require.NoError(t, err)
	require.Equal(t, 8, resp.Usage.PromptTokens)
	require.Equal(t, 4, resp.Usage.CompletionTokens)
	require.Equal(t, 12, resp.Usage.TotalTokens)
}

func TestCreateChatCompletionStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down", "type": "rate_limit_exceeded"}}`))
	}))
	defer server.Close()

	client, err := NewClient("test-key", server.URL, "", time.Second)
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=429")
}

func TestContentWithoutChoices(t *testing.T) {
	require.Equal(t, "", ChatCompletionResponse{}.Content())
}

func TestNilClientIsNotConfigured(t *testing.T) {
	var client *Client
	client.WarmTokenizer()
	_, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{})
	require.ErrorIs(t, err, ErrNotConfigured)
}
