package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IngestionService turns uploaded files into searchable chunks.
type IngestionService interface {
	// IngestFile extracts, chunks and embeds the file at path.
	// Unsupported or empty files fail before any document is created.
	IngestFile(ctx context.Context, userID, path string) (*domain.IngestResult, error)

	// IngestText runs the pipeline on already-extracted text.
	IngestText(ctx context.Context, userID, filename, text string) (*domain.IngestResult, error)

	// Reembed replaces a document's chunk records with freshly embedded ones.
	// Used after the embedding model changes.
	Reembed(ctx context.Context, userID string, documentID int64) (*domain.IngestResult, error)

	// SupportedExtensions lists the file extensions IngestFile accepts.
	SupportedExtensions() []string
}
