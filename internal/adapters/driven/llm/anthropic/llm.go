// Package anthropic generates replies with the Anthropic Messages API.
package anthropic

import (
	"cmp"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/adapters/driven/restapi"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-sonnet-latest"
	DefaultTimeout   = 15 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// Config configures an LLMService. MaxTokens is mandatory for the API, so
// a non-positive value falls back to DefaultMaxTokens.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type LLMService struct {
	api       *restapi.Client
	model     string
	maxTokens int
}

type messagesRequest struct {
	Model     string            `json:"model"`
	Messages  []messagesMessage `json:"messages"`
	MaxTokens int               `json:"max_tokens"`
}

type messagesMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: anthropic: API key is required", domain.ErrGenerationUnavailable)
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	api := restapi.New(cmp.Or(cfg.BaseURL, DefaultBaseURL), cfg.Timeout,
		restapi.WithHeader("x-api-key", cfg.APIKey),
		restapi.WithHeader("anthropic-version", anthropicVersion),
	)
	return &LLMService{
		api:       api,
		model:     cmp.Or(cfg.Model, DefaultModel),
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Generate returns the concatenated text blocks of the reply; other block
// types are skipped.
func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	req := messagesRequest{
		Model:     s.model,
		Messages:  []messagesMessage{{Role: "user", Content: prompt}},
		MaxTokens: s.maxTokens,
	}
	var resp messagesResponse
	if err := s.api.Post(ctx, "/v1/messages", req, &resp); err != nil {
		return "", restapi.Wrap("anthropic", domain.ErrGenerationUnavailable, err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic: reply had no text (stop reason %q)",
			domain.ErrGenerationUnavailable, resp.StopReason)
	}
	return text.String(), nil
}

func (s *LLMService) ModelName() string { return s.model }

func (s *LLMService) Ping(ctx context.Context) error {
	return restapi.Wrap("anthropic", domain.ErrGenerationUnavailable, s.api.Get(ctx, "/v1/models"))
}

func (s *LLMService) Close() error { return nil }
