package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i2p-business/i2p/pkg/ai-sdk/provider"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float32 `json:"temperature"`
	Stream      bool    `json:"stream"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, captured *capturedRequest, authHeader *string, body string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		*authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestProvider_Generate(t *testing.T) {
	var captured capturedRequest
	var auth string

	server := newTestServer(t, &captured, &auth, `{
		"id": "cmpl-1",
		"object": "chat.completion",
		"model": "meta-llama/Llama-3.1-8B-Instruct",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Here is the plan."}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
	}`)
	defer server.Close()

	p := New(Config{Name: "huggingface", APIKey: "hf_test", BaseURL: server.URL + "/v1/"})

	resp, err := p.Generate(context.Background(), provider.GenerateRequest{
		Model:       "meta-llama/Llama-3.1-8B-Instruct",
		Messages:    []types.Message{types.UserMessage("write a plan")},
		Temperature: 0.6,
		MaxTokens:   800,
	})
	require.NoError(t, err)

	assert.Equal(t, "Here is the plan.", resp.Content)
	assert.Equal(t, "stop", resp.FinishReason)
	assert.Equal(t, 17, resp.Usage.TotalTokens)

	assert.Equal(t, "Bearer hf_test", auth)
	assert.Equal(t, "meta-llama/Llama-3.1-8B-Instruct", captured.Model)
	assert.Equal(t, 800, captured.MaxTokens)
	assert.InDelta(t, 0.6, captured.Temperature, 0.0001)
	assert.False(t, captured.Stream)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Equal(t, "write a plan", captured.Messages[0].Content)
}

func TestProvider_GenerateEmptyChoices(t *testing.T) {
	var captured capturedRequest
	var auth string

	server := newTestServer(t, &captured, &auth, `{"id": "cmpl-2", "object": "chat.completion", "model": "m", "choices": []}`)
	defer server.Close()

	p := New(Config{APIKey: "k", BaseURL: server.URL + "/v1", Model: "fallback-model"})

	_, err := p.Generate(context.Background(), provider.GenerateRequest{
		Messages: []types.Message{types.UserMessage("hi")},
	})
	require.ErrorIs(t, err, types.ErrEmptyResponse)
	assert.Equal(t, "fallback-model", captured.Model)
}

func TestProvider_ID(t *testing.T) {
	assert.Equal(t, "openai", New(Config{}).ID())
	assert.Equal(t, "huggingface:qwen", New(Config{Name: "huggingface", Model: "qwen"}).ID())
}
