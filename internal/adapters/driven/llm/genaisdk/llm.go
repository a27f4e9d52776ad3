// Package genaisdk provides an LLM service adapter built on the Google Gen AI SDK.
package genaisdk

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	embedsdk "github.com/custodia-labs/docchat/internal/adapters/driven/embedding/genaisdk"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultModel   = "gemini-2.0-flash-exp"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the Gen AI LLM service.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// LLMService generates text through the SDK's Models.GenerateContent.
type LLMService struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewLLMService creates a Gen AI LLM service.
func NewLLMService(ctx context.Context, cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: genai: API key is required", domain.ErrGenerationUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client, err := embedsdk.NewClient(ctx, cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: genai: %w", domain.ErrGenerationUnavailable, err)
	}

	return &LLMService{
		client:  client,
		model:   strings.TrimPrefix(cfg.Model, "models/"),
		timeout: cfg.Timeout,
	}, nil
}

// Generate returns the concatenated text of the first candidate.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), nil)
	if err != nil {
		return "", embedsdk.WrapError(domain.ErrGenerationUnavailable, err)
	}
	if len(res.Candidates) == 0 {
		return "", fmt.Errorf("%w: genai: no candidates returned", domain.ErrGenerationUnavailable)
	}
	return res.Text(), nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping fetches the model's metadata.
func (s *LLMService) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.client.Models.Get(ctx, s.model, nil); err != nil {
		return embedsdk.WrapError(domain.ErrGenerationUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}
