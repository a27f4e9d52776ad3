// Package openai embeds text with the OpenAI embeddings endpoint or any
// compatible server.
package openai

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
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 15 * time.Second
)

// Config configures an EmbeddingService. APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type EmbeddingService struct {
	api   *restapi.Client
	model string
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: API key is required", domain.ErrEmbeddingUnavailable)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &EmbeddingService{
		api:   restapi.New(cmp.Or(cfg.BaseURL, DefaultBaseURL), cfg.Timeout, restapi.WithBearer(cfg.APIKey)),
		model: cmp.Or(cfg.Model, DefaultModel),
	}, nil
}

// Embed sends a one-element batch and returns the vector at index 0.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embeddingResponse
	err := s.api.Post(ctx, "/embeddings", embeddingRequest{Model: s.model, Input: []string{text}}, &resp)
	if err != nil {
		return nil, restapi.Wrap("openai", domain.ErrEmbeddingUnavailable, err)
	}

	for _, d := range resp.Data {
		if d.Index == 0 && len(d.Embedding) > 0 {
			return d.Embedding, nil
		}
	}
	return nil, fmt.Errorf("openai: %w", domain.ErrEmptyEmbedding)
}

func (s *EmbeddingService) ModelName() string { return s.model }

func (s *EmbeddingService) Ping(ctx context.Context) error {
	return restapi.Wrap("openai", domain.ErrEmbeddingUnavailable, s.api.Get(ctx, "/models"))
}

func (s *EmbeddingService) Close() error { return nil }
