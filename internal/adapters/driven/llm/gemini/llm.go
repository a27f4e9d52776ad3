// Package gemini provides an LLM service adapter for the Gemini REST API.
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

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash-exp"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the Gemini LLM service.
type Config struct {
	// APIKey is the Google AI API key (required).
	APIKey string

	// BaseURL is the API base URL. Tests point this at a local server.
	BaseURL string

	// Model is the generation model (default: gemini-2.0-flash-exp).
	Model string

	// Timeout bounds each request (default: 15s).
	Timeout time.Duration
}

// LLMService generates text with models/<model>:generateContent.
type LLMService struct {
	client  *google.Client
	baseURL string
	model   string
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// NewLLMService creates a Gemini LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini: API key is required", domain.ErrGenerationUnavailable)
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

	return &LLMService{
		client:  google.NewClient(cfg.Timeout, google.WithAPIKey(cfg.APIKey)),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   strings.TrimPrefix(cfg.Model, "models/"),
	}, nil
}

// Generate returns the text of the first candidate's first part.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	var resp generateResponse
	if err := s.client.PostJSON(ctx, s.endpoint(":generateContent"), body, &resp); err != nil {
		return "", google.WrapError("gemini", domain.ErrGenerationUnavailable, err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: gemini: prompt blocked (%s)",
				domain.ErrGenerationUnavailable, resp.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: gemini: no candidates returned", domain.ErrGenerationUnavailable)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the API key by fetching the model's metadata.
func (s *LLMService) Ping(ctx context.Context) error {
	if err := s.client.Get(ctx, s.endpoint("")); err != nil {
		return google.WrapError("gemini", domain.ErrGenerationUnavailable, err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

func (s *LLMService) endpoint(method string) string {
	return s.baseURL + "/v1beta/models/" + url.PathEscape(s.model) + method
}
