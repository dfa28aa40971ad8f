package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ProviderHuggingFace = "huggingface"
	ProviderOpenAI      = "openai"
	ProviderAnthropic   = "anthropic"
	ProviderGemini      = "gemini"

	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StoreMongoDB  = "mongodb"
	StorePostgres = "postgres"
)

// Config holds all advisor service configuration
type Config struct {
	// HTTP server
	HTTPAddress string
	StaticDir   string
	IndexFile   string

	// Inference
	InferenceProvider     string
	InferenceBaseURL      string
	InferenceToken        string
	ModelOverride         string
	Temperature           float32
	ContinuationMaxTokens int

	// Session storage
	SessionStore         string
	SessionDir           string
	RedisURL             string
	MongoURI             string
	MongoDatabase        string
	PostgresURL          string
	SessionTTL           time.Duration
	SessionSweepSchedule string

	// Signs session tokens; session tokens are disabled when empty
	JWTSecret string
}

// Load loads configuration from files and environment variables
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set up explicit mappings between struct fields and environment variables
	envMappings := map[string]string{
		"HTTPAddress":           "HTTP_ADDRESS",
		"StaticDir":             "STATIC_DIR",
		"IndexFile":             "INDEX_FILE",
		"InferenceProvider":     "INFERENCE_PROVIDER",
		"InferenceBaseURL":      "INFERENCE_BASE_URL",
		"InferenceToken":        "HF_TOKEN",
		"ModelOverride":         "MODEL_OVERRIDE",
		"Temperature":           "TEMPERATURE",
		"ContinuationMaxTokens": "CONTINUATION_MAX_TOKENS",
		"SessionStore":          "SESSION_STORE",
		"SessionDir":            "SESSION_DIR",
		"RedisURL":              "REDIS_URL",
		"MongoURI":              "MONGO_URI",
		"MongoDatabase":         "MONGO_DATABASE",
		"PostgresURL":           "POSTGRES_URL",
		"SessionTTL":            "SESSION_TTL",
		"SessionSweepSchedule":  "SESSION_SWEEP_SCHEDULE",
		"JWTSecret":             "JWT_SECRET",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("i2p_config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.i2p")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.InferenceProvider = strings.ToLower(strings.TrimSpace(config.InferenceProvider))
	config.SessionStore = strings.ToLower(strings.TrimSpace(config.SessionStore))

	if err := Validate(&config); err != nil {
		return nil, err
	}

	log.Debug().Msgf("Config loaded: InferenceProvider=%s, SessionStore=%s, HTTPAddress=%s",
		config.InferenceProvider, config.SessionStore, config.HTTPAddress)

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTPAddress", ":5000")
	v.SetDefault("StaticDir", "static")
	v.SetDefault("IndexFile", "i2p.html")

	v.SetDefault("InferenceProvider", ProviderHuggingFace)
	v.SetDefault("InferenceBaseURL", "https://router.huggingface.co/v1")
	v.SetDefault("Temperature", 0.6)
	v.SetDefault("ContinuationMaxTokens", 1000)

	v.SetDefault("SessionStore", StoreMemory)
	v.SetDefault("SessionDir", "./sessions")
	v.SetDefault("MongoDatabase", "i2p")
	v.SetDefault("SessionTTL", "24h")
	v.SetDefault("SessionSweepSchedule", "@every 10m")
}

// Validate checks that the selected provider and store are known and that
// the selected store has its connection settings. The inference token is
// not required at startup.
func Validate(config *Config) error {
	switch config.InferenceProvider {
	case ProviderHuggingFace, ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unknown inference provider %q", config.InferenceProvider)
	}

	var missingVars []string

	switch config.SessionStore {
	case StoreMemory, StoreFile:
	case StoreRedis:
		if config.RedisURL == "" {
			missingVars = append(missingVars, "REDIS_URL")
		}
	case StoreMongoDB:
		if config.MongoURI == "" {
			missingVars = append(missingVars, "MONGO_URI")
		}
	case StorePostgres:
		if config.PostgresURL == "" {
			missingVars = append(missingVars, "POSTGRES_URL")
		}
	default:
		return fmt.Errorf("unknown session store %q", config.SessionStore)
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables for session store %s: %s",
			config.SessionStore, strings.Join(missingVars, ", "))
	}

	if config.ContinuationMaxTokens <= 0 {
		return fmt.Errorf("continuation max tokens must be positive, got %d", config.ContinuationMaxTokens)
	}

	return nil
}
