package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentService manages a user's uploaded documents.
type DocumentService interface {
	// List returns summaries of the user's documents with chunk counts and previews.
	List(ctx context.Context, userID string) ([]domain.DocumentSummary, error)

	// Get returns one of the user's documents.
	Get(ctx context.Context, userID string, id int64) (*domain.Document, error)

	// Delete removes a document and its chunks.
	Delete(ctx context.Context, userID string, id int64) error

	// Clear removes all of the user's documents and chunks.
	Clear(ctx context.Context, userID string) error
}
