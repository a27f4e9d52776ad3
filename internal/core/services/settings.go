package services

import (
	"fmt"
	"os"
	"strconv"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider  = "embedding.provider"
	KeyEmbedModel     = "embedding.model"
	KeyEmbedBaseURL   = "embedding.base_url"
	KeyEmbedAPIKey    = "embedding.api_key"
	KeyEmbedTimeout   = "embedding.timeout_seconds"
	KeyEmbedRateLimit = "embedding.rate_limit"
	KeyLLMProvider    = "llm.provider"
	KeyLLMModel       = "llm.model"
	KeyLLMBaseURL     = "llm.base_url"
	KeyLLMAPIKey      = "llm.api_key"
	KeyLLMTimeout     = "llm.timeout_seconds"
	KeyIdentity       = "identity.provider"
	KeyIdentityAPIKey = "identity.api_key"
	KeyIdentityURL    = "identity.base_url"
	KeyStorageBackend = "storage.backend"
	KeyRedisAddr      = "storage.redis_addr"
	KeyRedisPassword  = "storage.redis_password"
	KeyRedisDB        = "storage.redis_db"
	KeyTopK           = "retrieval.top_k"
	KeyChunkSize      = "retrieval.chunk_size"
	KeyIngestWorkers  = "ingest.workers"
	KeyChatMode       = "chat.mode"
	KeySessionUserID  = "session.user_id"
	KeySessionEmail   = "session.email"
)

// Environment variables consulted when a key is absent from the config file.
//
//nolint:gosec // G101: These are variable names, not credentials.
const (
	EnvGoogleAPIKey    = "GOOGLE_API_KEY"
	EnvFirebaseAPIKey  = "FIREBASE_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
)

// settableKeys lists the keys accepted by Set, in display order.
var settableKeys = []string{
	KeyEmbedProvider, KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyEmbedTimeout, KeyEmbedRateLimit,
	KeyLLMProvider, KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey, KeyLLMTimeout,
	KeyIdentity, KeyIdentityAPIKey, KeyIdentityURL,
	KeyStorageBackend, KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyTopK, KeyChunkSize, KeyIngestWorkers, KeyChatMode,
}

// SettingsService resolves settings from the config store, the environment and defaults.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup. Used by tests.
func (s *SettingsService) WithEnv(lookup func(string) (string, bool)) *SettingsService {
	s.lookupEnv = lookup
	return s
}

// Get returns the effective settings.
func (s *SettingsService) Get() domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(KeyLLMProvider, defaults.LLM.Provider)

	return domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:       embedProvider,
			Model:          s.getString(KeyEmbedModel, defaultModel(domain.DefaultEmbeddingModels(), embedProvider)),
			BaseURL:        s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:         s.apiKey(KeyEmbedAPIKey, embedProvider),
			TimeoutSeconds: s.getInt(KeyEmbedTimeout, defaults.Embedding.TimeoutSeconds),
			RateLimit:      s.getFloat(KeyEmbedRateLimit, 0),
		},
		LLM: domain.LLMSettings{
			Provider:       llmProvider,
			Model:          s.getString(KeyLLMModel, defaultModel(domain.DefaultLLMModels(), llmProvider)),
			BaseURL:        s.configStore.GetString(KeyLLMBaseURL),
			APIKey:         s.apiKey(KeyLLMAPIKey, llmProvider),
			TimeoutSeconds: s.getInt(KeyLLMTimeout, defaults.LLM.TimeoutSeconds),
		},
		Identity: domain.IdentitySettings{
			Provider: domain.IdentityProviderType(s.getString(KeyIdentity, string(defaults.Identity.Provider))),
			APIKey:   s.getStringOrEnv(KeyIdentityAPIKey, EnvFirebaseAPIKey),
			BaseURL:  s.configStore.GetString(KeyIdentityURL),
		},
		Storage: domain.StorageSettings{
			Backend:       domain.StorageBackend(s.getString(KeyStorageBackend, string(defaults.Storage.Backend))),
			RedisAddr:     s.getString(KeyRedisAddr, defaults.Storage.RedisAddr),
			RedisPassword: s.configStore.GetString(KeyRedisPassword),
			RedisDB:       s.getInt(KeyRedisDB, defaults.Storage.RedisDB),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:      s.getInt(KeyTopK, defaults.Retrieval.TopK),
			ChunkSize: s.getInt(KeyChunkSize, defaults.Retrieval.ChunkSize),
		},
		Ingest: domain.IngestSettings{
			Workers: s.getInt(KeyIngestWorkers, defaults.Ingest.Workers),
		},
		Mode: s.Mode(),
	}
}

// Mode returns the persisted chat mode, defaulting to plain chat.
func (s *SettingsService) Mode() domain.ChatMode {
	mode, err := domain.ParseChatMode(s.configStore.GetString(KeyChatMode))
	if err != nil {
		return domain.ChatModePlain
	}
	return mode
}

// SetMode persists the chat mode.
func (s *SettingsService) SetMode(mode domain.ChatMode) error {
	if !mode.IsValid() {
		return domain.ErrInvalidMode
	}
	return s.configStore.Set(KeyChatMode, mode.String())
}

// Set validates value for key and persists it with the key's type.
func (s *SettingsService) Set(key, value string) error {
	var typed any = value

	switch key {
	case KeyEmbedProvider:
		if !domain.AIProvider(value).SupportsEmbeddings() {
			return fmt.Errorf("%w: %q does not provide embeddings", domain.ErrInvalidInput, value)
		}
	case KeyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: unknown LLM provider %q", domain.ErrInvalidInput, value)
		}
	case KeyIdentity:
		if !domain.IdentityProviderType(value).IsValid() {
			return fmt.Errorf("%w: unknown identity provider %q", domain.ErrInvalidInput, value)
		}
	case KeyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, value)
		}
	case KeyChatMode:
		if _, err := domain.ParseChatMode(value); err != nil {
			return err
		}
	case KeyTopK, KeyChunkSize, KeyIngestWorkers, KeyEmbedTimeout, KeyLLMTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case KeyRedisDB:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		typed = n
	case KeyEmbedRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number", domain.ErrInvalidInput, key)
		}
		typed = f
	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey,
		KeyIdentityAPIKey, KeyIdentityURL, KeyRedisAddr, KeyRedisPassword:
		// free-form strings
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	out := make([]string, len(settableKeys))
	copy(out, settableKeys)
	return out
}

// ConfigPath returns the location of the config file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// apiKey returns the configured key, falling back to the provider's environment variable.
func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderGemini, domain.AIProviderGenAI:
		return s.getStringOrEnv(key, EnvGoogleAPIKey)
	case domain.AIProviderOpenAI:
		return s.getStringOrEnv(key, EnvOpenAIAPIKey)
	case domain.AIProviderAnthropic:
		return s.getStringOrEnv(key, EnvAnthropicAPIKey)
	default:
		return s.configStore.GetString(key)
	}
}

func (s *SettingsService) getStringOrEnv(key, env string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	if v, ok := s.lookupEnv(env); ok {
		return v
	}
	return ""
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); !ok {
		return defaultVal
	}
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	if str, isString := val.(string); isString {
		if f, err := strconv.ParseFloat(str, 64); err == nil {
			return f
		}
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	p := domain.AIProvider(s.configStore.GetString(key))
	if p.IsValid() {
		return p
	}
	return defaultVal
}

func defaultModel(models map[domain.AIProvider]string, provider domain.AIProvider) string {
	return models[provider]
}
