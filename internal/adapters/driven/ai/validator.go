package ai

import (
	"context"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// DefaultPingTimeout bounds a single connectivity check.
const DefaultPingTimeout = 5 * time.Second

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings by building the adapter and
// pinging it. Unconfigured settings are always valid.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator returns a validator using DefaultPingTimeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: DefaultPingTimeout}
}

// ValidateEmbedding implements driven.AIConfigValidator.
func (v *ConfigValidator) ValidateEmbedding(ctx context.Context, settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateEmbeddingService(ctx, settings)
	return v.ping(ctx, svc, err)
}

// ValidateLLM implements driven.AIConfigValidator.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	svc, err := CreateLLMService(ctx, settings)
	return v.ping(ctx, svc, err)
}

// ValidateEmbeddingConfig validates settings with a default validator.
func ValidateEmbeddingConfig(ctx context.Context, settings *domain.EmbeddingSettings) error {
	return NewConfigValidator().ValidateEmbedding(ctx, settings)
}

// ValidateLLMConfig validates settings with a default validator.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	return NewConfigValidator().ValidateLLM(ctx, settings)
}

type pinger interface {
	Ping(ctx context.Context) error
	Close() error
}

func (v *ConfigValidator) ping(ctx context.Context, svc pinger, err error) error {
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close() //nolint:errcheck // validation only

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()
	return svc.Ping(ctx)
}
