package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// VectorStore persists chunk text together with its embedding.
// Every method is scoped to one user and never reads or affects another
// user's records.
type VectorStore interface {
	// Persist appends a chunk record and assigns its ID and CreatedAt.
	// Text and vector are written atomically; a reader never sees one without the other.
	Persist(ctx context.Context, chunk *domain.Chunk) error

	// FetchAllForUser returns every chunk across all of the user's documents,
	// in insertion order.
	FetchAllForUser(ctx context.Context, userID string) ([]domain.Chunk, error)

	// CountForDocument returns the number of chunk records for a document.
	CountForDocument(ctx context.Context, userID string, documentID int64) (int, error)

	// DeleteForDocument removes the chunk records of one document.
	DeleteForDocument(ctx context.Context, userID string, documentID int64) error

	// ReplaceForDocument swaps a document's chunk records for chunks in one
	// atomic step and assigns each new chunk its ID and CreatedAt. Readers see
	// either the old set or the new one. A missing document, or one owned by
	// another user, is domain.ErrNotFound.
	ReplaceForDocument(ctx context.Context, userID string, documentID int64, chunks []domain.Chunk) error

	// DeleteAllForUser removes every chunk record owned by the user.
	DeleteAllForUser(ctx context.Context, userID string) error
}
