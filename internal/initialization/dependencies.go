package initialization

import (
	"context"
	"errors"
	"fmt"

	"github.com/i2p-business/i2p/internal/auth"
	"github.com/i2p-business/i2p/internal/config"
	"github.com/i2p-business/i2p/internal/controllers"
	"github.com/i2p-business/i2p/pkg/advisor"
	"github.com/i2p-business/i2p/pkg/ai-sdk/memory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/memory/filestorage"
	"github.com/i2p-business/i2p/pkg/ai-sdk/memory/inmemory"
	"github.com/i2p-business/i2p/pkg/ai-sdk/memory/mongodb"
	"github.com/i2p-business/i2p/pkg/ai-sdk/memory/postgresql"
	"github.com/i2p-business/i2p/pkg/ai-sdk/memory/redis"
	"github.com/i2p-business/i2p/pkg/ai-sdk/provider"
	"github.com/i2p-business/i2p/pkg/ai-sdk/provider/anthropic"
	"github.com/i2p-business/i2p/pkg/ai-sdk/provider/gemini"
	"github.com/i2p-business/i2p/pkg/ai-sdk/provider/openai"
	"github.com/i2p-business/i2p/pkg/ai-sdk/types"

	"github.com/rs/zerolog/log"
)

// Dependencies contains everything the advisor service needs at runtime
type Dependencies struct {
	Config            *config.Config
	Store             memory.Store
	Orchestrator      *advisor.Orchestrator
	TokenIssuer       *auth.SessionTokenIssuer
	ChatController    *controllers.ChatController
	SessionController *controllers.SessionController

	closers []func(ctx context.Context) error
}

// BuildDependencies creates and wires up all advisor dependencies
func BuildDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	log.Info().Msg("Building advisor dependencies")

	model, err := NewLanguageModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := NewSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	orchestrator := advisor.NewOrchestrator(advisor.OrchestratorDeps{
		Gateway:               advisor.NewGateway(model, cfg.Temperature),
		Store:                 store,
		ModelOverride:         cfg.ModelOverride,
		ContinuationMaxTokens: cfg.ContinuationMaxTokens,
	})

	tokenIssuer := auth.NewSessionTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)

	deps := &Dependencies{
		Config:       cfg,
		Store:        store,
		Orchestrator: orchestrator,
		TokenIssuer:  tokenIssuer,
		ChatController: controllers.NewChatController(controllers.ChatControllerDependencies{
			Generator: orchestrator,
			Tokens:    tokenIssuer,
		}),
		SessionController: controllers.NewSessionController(controllers.SessionControllerDependencies{
			Sessions: orchestrator,
			Tokens:   tokenIssuer,
		}),
	}

	if closeStore != nil {
		deps.closers = append(deps.closers, closeStore)
	}

	log.Info().
		Str("provider", model.ID()).
		Str("session_store", cfg.SessionStore).
		Bool("session_tokens", tokenIssuer != nil).
		Msg("Advisor dependencies ready")

	return deps, nil
}

// Close releases store connections in reverse order of creation.
func (d *Dependencies) Close(ctx context.Context) error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewLanguageModel builds the inference provider selected by
// InferenceProvider. The Hugging Face router speaks the OpenAI chat
// completions protocol and reuses the OpenAI provider.
func NewLanguageModel(ctx context.Context, cfg *config.Config) (provider.LanguageModel, error) {
	if cfg.InferenceToken == "" {
		log.Warn().Msg("No inference token configured, model calls will likely be rejected")
	}

	switch cfg.InferenceProvider {
	case config.ProviderHuggingFace:
		baseURL := cfg.InferenceBaseURL
		if baseURL == "" {
			baseURL = openai.HuggingFaceRouterURL
		}

		return openai.New(openai.Config{
			Name:    config.ProviderHuggingFace,
			APIKey:  cfg.InferenceToken,
			BaseURL: baseURL,
			Model:   cfg.ModelOverride,
		}), nil

	case config.ProviderOpenAI:
		baseURL := cfg.InferenceBaseURL
		if baseURL == openai.HuggingFaceRouterURL {
			baseURL = ""
		}

		return openai.New(openai.Config{
			Name:    config.ProviderOpenAI,
			APIKey:  cfg.InferenceToken,
			BaseURL: baseURL,
			Model:   cfg.ModelOverride,
		}), nil

	case config.ProviderAnthropic:
		if cfg.ModelOverride == "" {
			log.Warn().Msg("Anthropic provider without MODEL_OVERRIDE will receive Hugging Face model ids")
		}

		return anthropic.New(anthropic.Config{
			APIKey: cfg.InferenceToken,
			Model:  cfg.ModelOverride,
		}), nil

	case config.ProviderGemini:
		if cfg.ModelOverride == "" {
			log.Warn().Msg("Gemini provider without MODEL_OVERRIDE will receive Hugging Face model ids")
		}

		model, err := gemini.New(ctx, cfg.InferenceToken, cfg.ModelOverride)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		return model, nil
	}

	return nil, fmt.Errorf("%w: %s", types.ErrUnknownProvider, cfg.InferenceProvider)
}

// NewSessionStore opens the session store selected by SessionStore. The
// returned close function is nil for stores that hold no connection.
func NewSessionStore(ctx context.Context, cfg *config.Config) (memory.Store, func(ctx context.Context) error, error) {
	switch cfg.SessionStore {
	case config.StoreMemory:
		return inmemory.New(), nil, nil

	case config.StoreFile:
		store, err := filestorage.New(cfg.SessionDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file session store: %w", err)
		}
		return store, nil, nil

	case config.StoreRedis:
		store, err := redis.New(ctx, redis.Opts{
			URL: cfg.RedisURL,
			TTL: cfg.SessionTTL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open redis session store: %w", err)
		}
		return store, func(context.Context) error { return store.Close() }, nil

	case config.StoreMongoDB:
		store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open mongodb session store: %w", err)
		}
		return store, store.Close, nil

	case config.StorePostgres:
		store, err := postgresql.New(ctx, postgresql.Opts{URL: cfg.PostgresURL})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres session store: %w", err)
		}
		return store, func(context.Context) error {
			store.Close()
			return nil
		}, nil
	}

	return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}
