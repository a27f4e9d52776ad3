// Package ollama embeds text with a local Ollama server.
package ollama

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/restapi"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// EmbeddingService uses /api/embed, which accepts a batch and returns one
// vector per input.
type EmbeddingService struct {
	api   *restapi.Client
	model string
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &EmbeddingService{
		api:   restapi.New(cmp.Or(cfg.BaseURL, DefaultBaseURL), cfg.Timeout),
		model: cmp.Or(cfg.Model, DefaultModel),
	}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedResponse
	if err := s.api.Post(ctx, "/api/embed", embedRequest{Model: s.model, Input: []string{text}}, &resp); err != nil {
		return nil, restapi.Wrap("ollama", domain.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0]) == 0 {
		return nil, fmt.Errorf("ollama: %w", domain.ErrEmptyEmbedding)
	}
	return resp.Embeddings[0], nil
}

func (s *EmbeddingService) ModelName() string { return s.model }

func (s *EmbeddingService) Ping(ctx context.Context) error {
	return restapi.Wrap("ollama", domain.ErrEmbeddingUnavailable, s.api.Get(ctx, "/api/tags"))
}

func (s *EmbeddingService) Close() error { return nil }
