package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService embeds a query, fetches the user's chunks and ranks them.
// It has no state of its own beyond its collaborators and only reads from the store.
type RetrievalService struct {
	embedding driven.EmbeddingService
	vectors   driven.VectorStore
	topK      int
}

// NewRetrievalService creates a retrieval service.
// embedding may be nil, in which case every query retrieves nothing.
func NewRetrievalService(
	embedding driven.EmbeddingService,
	vectors driven.VectorStore,
	topK int,
) *RetrievalService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrievalService{
		embedding: embedding,
		vectors:   vectors,
		topK:      topK,
	}
}

// Retrieve returns the text of the top-K chunks for the user's query.
func (s *RetrievalService) Retrieve(ctx context.Context, userID, query string) ([]string, error) {
	hits, err := s.RetrieveScored(ctx, userID, query, s.topK)
	if err != nil {
		return nil, err
	}
	return texts(hits), nil
}

// RetrieveScored returns up to k ranked chunks with their similarity scores.
func (s *RetrievalService) RetrieveScored(
	ctx context.Context,
	userID, query string,
	k int,
) ([]domain.ScoredChunk, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 {
		k = s.topK
	}

	logger.Section("Retrieval")
	logger.Debug("Query: %q (top %d)", query, k)

	if s.embedding == nil {
		logger.Warn("%v: retrieval skipped", domain.ErrEmbeddingUnavailable)
		return []domain.ScoredChunk{}, nil
	}

	done := logger.Timed("embed query")
	queryVec, err := s.embedding.Embed(ctx, query)
	done()
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return []domain.ScoredChunk{}, nil
	}
	if len(queryVec) == 0 {
		logger.Warn("Query embedding was empty")
		return []domain.ScoredChunk{}, nil
	}

	candidates, err := s.vectors.FetchAllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch chunks: %w", err)
	}
	logger.Debug("Candidates: %d", len(candidates))

	hits := Rank(queryVec, candidates, k)
	for i := range hits {
		logger.Debug("  [%d] doc=%d pos=%d score=%.4f",
			i+1, hits[i].Chunk.DocumentID, hits[i].Chunk.Position, hits[i].Score)
	}

	return hits, nil
}
