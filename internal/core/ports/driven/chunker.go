package driven

import "github.com/custodia-labs/docchat/internal/core/domain"

// Chunker splits a document's content into chunks ready for embedding.
// Returned chunks carry DocumentID, UserID, Position and Text; whitespace-only
// pieces are already dropped.
type Chunker interface {
	// Name returns the chunker name for logging.
	Name() string

	// Process splits doc.Content.
	Process(doc *domain.Document) []domain.Chunk
}
