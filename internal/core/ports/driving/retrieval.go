package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// RetrievalService finds the chunks most relevant to a query.
// It only reads, and is safe to call concurrently for any mix of users.
type RetrievalService interface {
	// Retrieve returns the text of the top-K chunks for the user's query.
	// A failed or empty query embedding yields an empty result, not an error.
	Retrieve(ctx context.Context, userID, query string) ([]string, error)

	// RetrieveScored returns up to k ranked chunks with their scores.
	// k <= 0 uses the configured default.
	RetrieveScored(ctx context.Context, userID, query string, k int) ([]domain.ScoredChunk, error)
}
