package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/i2p-business/i2p/pkg/ai-sdk/provider"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// HuggingFaceRouterURL is the OpenAI-compatible endpoint of the Hugging Face
// inference router.
const HuggingFaceRouterURL = "https://router.huggingface.co/v1"

// Provider implements the LanguageModel interface for OpenAI-compatible
// chat completion endpoints (OpenAI itself, Hugging Face router, vLLM, ...).
type Provider struct {
	client *openai.Client
	name   string
	model  string
}

// Config holds the connection settings of the provider
type Config struct {
	// Name is used in ID() and logs, e.g. "huggingface" or "openai"
	Name    string
	APIKey  string
	BaseURL string
	// Model is used when a request does not name one
	Model      string
	HTTPClient *http.Client
}

// New creates a new OpenAI-compatible provider
func New(config Config) *Provider {
	clientConfig := openai.DefaultConfig(config.APIKey)

	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	}

	if config.HTTPClient != nil {
		clientConfig.HTTPClient = config.HTTPClient
	}

	name := config.Name
	if name == "" {
		name = "openai"
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		name:   name,
		model:  config.Model,
	}
}

// Generate implements the Generate method of the LanguageModel interface
func (p *Provider) Generate(ctx context.Context, req provider.GenerateRequest) (*types.GenerateResponse, error) {
	model := req.ModelOrDefault(p.model)

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    p.convertMessages(req.Messages),
		Temperature: req.Temperature,
		Stream:      false,
	}

	if req.MaxTokens > 0 {
		if isMaxCompletionTokensModel(model) {
			chatReq.MaxCompletionTokens = req.MaxTokens
		} else {
			chatReq.MaxTokens = req.MaxTokens
		}
	}

	log.Debug().
		Str("provider", p.name).
		Str("model", model).
		Int("max_tokens", req.MaxTokens).
		Msg("Sending chat completion request")

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("%s api error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return nil, types.ErrEmptyResponse
	}

	choice := resp.Choices[0]

	return &types.GenerateResponse{
		Content:      choice.Message.Content,
		FinishReason: string(choice.FinishReason),
		Model:        resp.Model,
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// ID returns the provider identifier
func (p *Provider) ID() string {
	if p.model == "" {
		return p.name
	}
	return fmt.Sprintf("%s:%s", p.name, p.model)
}

func (p *Provider) convertMessages(messages []types.Message) []openai.ChatCompletionMessage {
	result := make([]openai.ChatCompletionMessage, 0, len(messages))

	for _, msg := range messages {
		result = append(result, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}

	return result
}

var maxCompletionTokensModels = map[string]bool{
	"o1": true, "o1-mini": true, "o1-preview": true,
	"o3": true, "o3-mini": true,
	"gpt-5": true, "gpt-5-mini": true, "gpt-5-nano": true,
}

func isMaxCompletionTokensModel(model string) bool {
	return maxCompletionTokensModels[model]
}
