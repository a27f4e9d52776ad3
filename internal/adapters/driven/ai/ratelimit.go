package ai

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure RateLimitedEmbedder implements the interface.
var _ driven.EmbeddingService = (*RateLimitedEmbedder)(nil)

// RateLimitedEmbedder caps the request rate of another EmbeddingService
// with a token bucket. Ingestion embeds chunks in parallel, which can
// otherwise trip a provider's per-minute quota.
type RateLimitedEmbedder struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// NewRateLimitedEmbedder allows perSecond requests per second with a burst of one.
func NewRateLimitedEmbedder(next driven.EmbeddingService, perSecond float64) *RateLimitedEmbedder {
	return &RateLimitedEmbedder{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Embed waits for a token, then delegates.
func (e *RateLimitedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return e.next.Embed(ctx, text)
}

// ModelName returns the wrapped service's model name.
func (e *RateLimitedEmbedder) ModelName() string {
	return e.next.ModelName()
}

// Ping delegates without consuming a token.
func (e *RateLimitedEmbedder) Ping(ctx context.Context) error {
	return e.next.Ping(ctx)
}

// Close closes the wrapped service.
func (e *RateLimitedEmbedder) Close() error {
	return e.next.Close()
}
