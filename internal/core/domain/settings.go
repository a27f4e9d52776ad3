package domain

const unknownDescription = "Unknown"

// Retrieval and ingestion defaults.
const (
	// DefaultChunkSize is the number of characters per chunk.
	DefaultChunkSize = 800

	// DefaultTopK is the number of chunks retrieved per query.
	DefaultTopK = 3

	// DefaultIngestWorkers bounds concurrent embedding calls per document.
	DefaultIngestWorkers = 4

	// DefaultServiceTimeoutSeconds bounds each embedding and generation call.
	DefaultServiceTimeoutSeconds = 15

	// DefaultIdentityTimeoutSeconds bounds each identity provider call.
	DefaultIdentityTimeoutSeconds = 10
)

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Gemini REST API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderGenAI is the Gemini API through the Google Gen AI SDK.
	AIProviderGenAI AIProvider = "genai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API. Generation only.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderGenAI, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p != AIProviderOllama
}

// SupportsEmbeddings returns true if this provider can produce embeddings.
func (p AIProvider) SupportsEmbeddings() bool {
	return p.IsValid() && p != AIProviderAnthropic
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Gemini (REST)"
	case AIProviderGenAI:
		return "Gemini (Gen AI SDK)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// TimeoutSeconds bounds each embedding call. No retry is performed.
	TimeoutSeconds int

	// RateLimit caps embedding requests per second. Zero disables limiting.
	RateLimit float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.SupportsEmbeddings() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds generation provider configuration.
type LLMSettings struct {
	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL overrides the provider's API endpoint.
	BaseURL string

	// APIKey is the API key for cloud providers.
	APIKey string

	// TimeoutSeconds bounds each generation call.
	TimeoutSeconds int
}

// IsConfigured returns true if the generation provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IdentityProviderType identifies where credentials are verified.
type IdentityProviderType string

// Available identity providers.
const (
	// IdentityFirebase verifies credentials with Firebase Authentication.
	IdentityFirebase IdentityProviderType = "firebase"

	// IdentityLocal keeps accounts in memory. Intended for offline use and tests.
	IdentityLocal IdentityProviderType = "local"
)

// IsValid returns true if the identity provider is recognised.
func (p IdentityProviderType) IsValid() bool {
	return p == IdentityFirebase || p == IdentityLocal
}

// IdentitySettings holds identity provider configuration.
type IdentitySettings struct {
	Provider IdentityProviderType
	APIKey   string
	BaseURL  string
}

// IsConfigured returns true if the identity provider is set up.
func (i IdentitySettings) IsConfigured() bool {
	switch i.Provider {
	case IdentityLocal:
		return true
	case IdentityFirebase:
		return i.APIKey != ""
	default:
		return false
	}
}

// StorageBackend identifies the persistence engine.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
	StorageRedis  StorageBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory, StorageRedis:
		return true
	default:
		return false
	}
}

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	Backend       StorageBackend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// RetrievalSettings holds chunking and ranking parameters.
type RetrievalSettings struct {
	// TopK is the number of chunks returned per query.
	TopK int

	// ChunkSize is the chunk length in characters.
	ChunkSize int
}

// IngestSettings holds ingestion pipeline parameters.
type IngestSettings struct {
	// Workers bounds concurrent embedding calls for one document.
	Workers int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Identity  IdentitySettings
	Storage   StorageSettings
	Retrieval RetrievalSettings
	Ingest    IngestSettings

	// Mode is the persisted chat mode.
	Mode ChatMode
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the config file or the environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:       AIProviderGemini,
			Model:          DefaultEmbeddingModels()[AIProviderGemini],
			TimeoutSeconds: DefaultServiceTimeoutSeconds,
		},
		LLM: LLMSettings{
			Provider:       AIProviderGemini,
			Model:          DefaultLLMModels()[AIProviderGemini],
			TimeoutSeconds: DefaultServiceTimeoutSeconds,
		},
		Identity: IdentitySettings{
			Provider: IdentityFirebase,
		},
		Storage: StorageSettings{
			Backend:   StorageSQLite,
			RedisAddr: "localhost:6379",
		},
		Retrieval: RetrievalSettings{
			TopK:      DefaultTopK,
			ChunkSize: DefaultChunkSize,
		},
		Ingest: IngestSettings{
			Workers: DefaultIngestWorkers,
		},
		Mode: ChatModePlain,
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderGenAI,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderGenAI,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini: "text-embedding-004",
		AIProviderGenAI:  "text-embedding-004",
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each generation provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.0-flash-exp",
		AIProviderGenAI:     "gemini-2.0-flash-exp",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
