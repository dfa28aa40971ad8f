package anthropic

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

func TestProvider_Generate(t *testing.T) {
	var received map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-5",
			"content": [{"type": "text", "text": "Strategy ready."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 4}
		}`))
	}))
	defer server.Close()

	p := New(Config{APIKey: "test-key", Model: "claude-sonnet-4-5", BaseURL: server.URL})

	resp, err := p.Generate(context.Background(), provider.GenerateRequest{
		Messages: []types.Message{
			{Role: types.RoleSystem, Content: "Answer as a business advisor."},
			types.UserMessage("Plan my bakery"),
		},
		Temperature: 0.5,
		MaxTokens:   1200,
	})
	require.NoError(t, err)

	assert.Equal(t, "Strategy ready.", resp.Content)
	assert.Equal(t, types.FinishReasonStop, resp.FinishReason)
	assert.Equal(t, 16, resp.Usage.TotalTokens)

	assert.Equal(t, "claude-sonnet-4-5", received["model"])
	assert.Equal(t, float64(1200), received["max_tokens"])
	assert.InDelta(t, 0.5, received["temperature"], 0.0001)

	system, ok := received["system"].([]any)
	require.True(t, ok)
	require.Len(t, system, 1)
	assert.Equal(t, "Answer as a business advisor.", system[0].(map[string]any)["text"])

	messages, ok := received["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 1)
}

func TestMapStopReason(t *testing.T) {
	assert.Equal(t, types.FinishReasonStop, mapStopReason("end_turn"))
	assert.Equal(t, types.FinishReasonStop, mapStopReason("stop_sequence"))
	assert.Equal(t, types.FinishReasonLength, mapStopReason("max_tokens"))
	assert.Equal(t, "tool_use", mapStopReason("tool_use"))
}

func TestConvertMessages_SkipsSystemAndEmpty(t *testing.T) {
	p := New(Config{APIKey: "k"})

	got := p.convertMessages([]types.Message{
		{Role: types.RoleSystem, Content: "be brief"},
		{Role: types.RoleUser, Content: ""},
		types.UserMessage("hello"),
		{Role: types.RoleAssistant, Content: "hi"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "user", string(got[0].Role))
	assert.Equal(t, "assistant", string(got[1].Role))
}
