package advisor

import (
	"context"
	"fmt"

	"github.com/i2p-business/i2p/pkg/ai-sdk/provider"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/rs/zerolog/log"
)

// DefaultTemperature is the sampling temperature used for every call.
const DefaultTemperature float32 = 0.6

type CallModelParams struct {
	Model     string
	Prompt    string
	MaxTokens int
}

// Gateway sends one prompt to a hosted model and returns the generated text.
type Gateway interface {
	CallModel(ctx context.Context, p CallModelParams) (string, error)
}

type LanguageModelGateway struct {
	model       provider.LanguageModel
	temperature float32
}

// NewGateway returns a Gateway backed by model. A non-positive temperature
// selects DefaultTemperature.
func NewGateway(model provider.LanguageModel, temperature float32) *LanguageModelGateway {
	if temperature <= 0 {
		temperature = DefaultTemperature
	}

	return &LanguageModelGateway{
		model:       model,
		temperature: temperature,
	}
}

func (g *LanguageModelGateway) CallModel(ctx context.Context, p CallModelParams) (string, error) {
	if g.model == nil {
		return "", types.ErrProviderNotSet
	}

	resp, err := g.model.Generate(ctx, provider.GenerateRequest{
		Model:       p.Model,
		Messages:    []types.Message{types.UserMessage(p.Prompt)},
		Temperature: g.temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call model %s: %w", p.Model, err)
	}

	log.Debug().
		Str("provider", g.model.ID()).
		Str("model", p.Model).
		Str("finish_reason", resp.FinishReason).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("Model call completed")

	return resp.Content, nil
}
