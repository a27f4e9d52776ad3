package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentStore persists documents. Every method is scoped to one user;
// a document owned by another user behaves as if it does not exist.
type DocumentStore interface {
	// Create persists doc and assigns its ID and CreatedAt.
	Create(ctx context.Context, doc *domain.Document) error

	// Get returns the user's document, or domain.ErrNotFound.
	Get(ctx context.Context, userID string, id int64) (*domain.Document, error)

	// List returns the user's documents in creation order.
	List(ctx context.Context, userID string) ([]domain.Document, error)

	// Delete removes the document and all of its chunks in one transaction.
	// Returns domain.ErrNotFound if the user owns no such document.
	Delete(ctx context.Context, userID string, id int64) error

	// DeleteAll removes all of the user's documents and chunks in one transaction.
	DeleteAll(ctx context.Context, userID string) error
}
