// Package genaisdk provides an embedding service adapter built on the
// Google Gen AI SDK (google.golang.org/genai).
package genaisdk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel   = "text-embedding-004"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the Gen AI embedding service.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// EmbeddingService embeds text through the Gen AI SDK's Models.EmbedContent.
type EmbeddingService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewEmbeddingService creates a Gen AI embedding service.
func NewEmbeddingService(ctx context.Context, cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: genai: API key is required", domain.ErrEmbeddingUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := NewClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: genai: %w", domain.ErrEmbeddingUnavailable, err)
	}

	return &EmbeddingService{
		client:  client,
		model:   strings.TrimPrefix(cfg.Model, "models/"),
		timeout: cfg.Timeout,
	}, nil
}

// NewClient creates a Gemini API client. An empty baseURL uses the SDK default.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	return genai.NewClient(ctx, cc)
}

// Embed returns the embedding of text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.Models.EmbedContent(ctx, s.model, genai.Text(text), nil)
	if err != nil {
		return nil, WrapError(domain.ErrEmbeddingUnavailable, err)
	}
	if len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("genai: %w", domain.ErrEmptyEmbedding)
	}
	return res.Embeddings[0].Values, nil
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return WrapError(domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Close releases resources. The SDK client holds none that need closing.
func (s *EmbeddingService) Close() error {
	return nil
}

// WrapError tags an SDK error with category and, for HTTP 429, domain.ErrRateLimited.
func WrapError(category, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return fmt.Errorf("%w: genai: %w", category, domain.ErrRateLimited)
		}
		return fmt.Errorf("%w: genai: %s (status %d)", category, apiErr.Message, apiErr.Code)
	}
	return fmt.Errorf("%w: genai: %w", category, err)
}
