package driven

import "context"

// EmbeddingService turns text into a vector.
// Implementations bound every call with a timeout and never retry; a failed
// call returns an error and callers decide whether to skip or abort.
//
// Implementations include:
//   - Gemini REST (text-embedding-004)
//   - Gemini through the Gen AI SDK
//   - OpenAI (text-embedding-3-small, text-embedding-3-large)
//   - Ollama (nomic-embed-text, all-minilm)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	// An empty vector is never returned without an error.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
