// Package ollama generates replies with a local Ollama server.
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

var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL  = "http://localhost:11434"
	DefaultLLMModel = "llama3.2"
	// DefaultLLMTimeout is generous because the first call loads the model.
	DefaultLLMTimeout = 60 * time.Second
)

type LLMConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService talks to /api/chat with streaming off.
type LLMService struct {
	api   *restapi.Client
	model string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message    chatMessage `json:"message"`
	Done       bool        `json:"done"`
	DoneReason string      `json:"done_reason"`
}

// NewLLMService never fails: Ollama needs no credentials, and an absent
// server surfaces on the first call.
func NewLLMService(cfg LLMConfig) *LLMService {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}
	return &LLMService{
		api:   restapi.New(cmp.Or(cfg.BaseURL, DefaultBaseURL), cfg.Timeout),
		model: cmp.Or(cfg.Model, DefaultLLMModel),
	}
}

func (s *LLMService) Generate(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:    s.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	var resp chatResponse
	if err := s.api.Post(ctx, "/api/chat", req, &resp); err != nil {
		return "", restapi.Wrap("ollama", domain.ErrGenerationUnavailable, err)
	}
	if !resp.Done {
		return "", fmt.Errorf("%w: ollama: incomplete reply", domain.ErrGenerationUnavailable)
	}
	return resp.Message.Content, nil
}

func (s *LLMService) ModelName() string { return s.model }

// Ping lists local models to check the server is up.
func (s *LLMService) Ping(ctx context.Context) error {
	return restapi.Wrap("ollama", domain.ErrGenerationUnavailable, s.api.Get(ctx, "/api/tags"))
}

func (s *LLMService) Close() error { return nil }
