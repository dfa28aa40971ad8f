package provider

import (
	"context"

	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
)

// LanguageModel defines the interface that all LLM providers must implement
type LanguageModel interface {
	// Generate produces a complete response (blocking)
	Generate(ctx context.Context, req GenerateRequest) (*types.GenerateResponse, error)

	// ID returns the unique identifier for this provider
	ID() string
}

// GenerateRequest contains all parameters for generating text
type GenerateRequest struct {
	// Model selects the hosted model; providers fall back to their default when empty
	Model string `json:"model,omitempty"`

	// Messages is the conversation history
	Messages []types.Message `json:"messages"`

	// Temperature controls randomness (0.0 to 2.0)
	Temperature float32 `json:"temperature,omitempty"`

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int `json:"max_tokens,omitempty"`
}

// ModelOrDefault returns the requested model, or fallback when none was requested.
func (r GenerateRequest) ModelOrDefault(fallback string) string {
	if r.Model != "" {
		return r.Model
	}
	return fallback
}
