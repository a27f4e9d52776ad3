package driven

import "context"

// LLMService generates text from a prompt.
// The core treats it as opaque: it never inspects the prompt or the reply.
type LLMService interface {
	// Generate returns the model's reply to prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
