package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService provides listing and deletion of a user's documents.
type DocumentService struct {
	documents driven.DocumentStore
	vectors   driven.VectorStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(documents driven.DocumentStore, vectors driven.VectorStore) *DocumentService {
	return &DocumentService{
		documents: documents,
		vectors:   vectors,
	}
}

// List returns the user's documents with their searchable chunk counts.
func (s *DocumentService) List(ctx context.Context, userID string) ([]domain.DocumentSummary, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	if s.documents == nil {
		return nil, domain.ErrNotImplemented
	}

	docs, err := s.documents.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	summaries := make([]domain.DocumentSummary, 0, len(docs))
	for i := range docs {
		count := 0
		if s.vectors != nil {
			count, err = s.vectors.CountForDocument(ctx, userID, docs[i].ID)
			if err != nil {
				return nil, fmt.Errorf("count chunks for document %d: %w", docs[i].ID, err)
			}
		}
		summaries = append(summaries, domain.NewDocumentSummary(docs[i], count))
	}

	return summaries, nil
}

// Get returns one of the user's documents.
func (s *DocumentService) Get(ctx context.Context, userID string, id int64) (*domain.Document, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	if s.documents == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.documents.Get(ctx, userID, id)
}

// Delete removes a document and its chunks.
func (s *DocumentService) Delete(ctx context.Context, userID string, id int64) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	if s.documents == nil {
		return domain.ErrNotImplemented
	}
	return s.documents.Delete(ctx, userID, id)
}

// Clear removes every document and chunk the user owns.
func (s *DocumentService) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return domain.ErrAuthRequired
	}
	if s.documents == nil {
		return domain.ErrNotImplemented
	}
	return s.documents.DeleteAll(ctx, userID)
}
