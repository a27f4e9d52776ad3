// Package gemini provides an embedding service adapter for the Gemini REST API.
package gemini

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/google"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "text-embedding-004"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// APIKey is the Google AI API key (required).
	APIKey string

	// BaseURL is the API base URL. Tests point this at a local server.
	BaseURL string

	// Model is the embedding model (default: text-embedding-004).
	Model string

	// Timeout bounds each request (default: 15s). Failed requests are not retried.
	Timeout time.Duration
}

// EmbeddingService embeds text with models/<model>:embedContent.
type EmbeddingService struct {
	client  *google.Client
	baseURL string
	model   string
}

type embedRequest struct {
	Model   string  `json:"model"`
	Content content `json:"content"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// NewEmbeddingService creates a Gemini embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini: API key is required", domain.ErrEmbeddingUnavailable)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &EmbeddingService{
		client:  google.NewClient(cfg.Timeout, google.WithAPIKey(cfg.APIKey)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   strings.TrimPrefix(cfg.Model, "models/"),
	}, nil
}

// Embed returns the embedding of text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	body := embedRequest{
		Model:   "models/" + s.model,
		Content: content{Parts: []part{{Text: text}}},
	}

	var resp embedResponse
	if err := s.client.PostJSON(ctx, s.endpoint(":embedContent"), body, &resp); err != nil {
		return nil, google.WrapError("gemini", domain.ErrEmbeddingUnavailable, err)
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini: %w", domain.ErrEmptyEmbedding)
	}
	return resp.Embedding.Values, nil
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping checks the API key by fetching the model's metadata.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.endpoint("")); err != nil {
		return google.WrapError("gemini", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func (s *EmbeddingService) endpoint(method string) string {
	return s.baseURL + "/v1beta/models/" + url.PathEscape(s.model) + method
}
