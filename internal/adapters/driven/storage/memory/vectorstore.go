package memory

import (
	"context"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// ==================== Vector Store ====================

// Ensure vectorStore implements the interface.
var _ driven.VectorStore = (*vectorStore)(nil)

type vectorStore struct {
	store *Store
}

func (v *vectorStore) Persist(_ context.Context, chunk *domain.Chunk) error {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[chunk.DocumentID]
	if !ok || doc.UserID != chunk.UserID {
		return domain.ErrNotFound
	}

	s.nextChunkID++
	chunk.ID = s.nextChunkID
	chunk.CreatedAt = time.Now()

	stored := *chunk
	stored.Vector = copyVector(chunk.Vector)
	s.chunks = append(s.chunks, stored)
	return nil
}

func (v *vectorStore) FetchAllForUser(_ context.Context, userID string) ([]domain.Chunk, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Chunk, 0)
	for _, c := range s.chunks {
		if c.UserID == userID {
			c.Vector = copyVector(c.Vector)
			out = append(out, c)
		}
	}
	return out, nil
}

func (v *vectorStore) CountForDocument(_ context.Context, userID string, documentID int64) (int, error) {
	s := v.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, c := range s.chunks {
		if c.UserID == userID && c.DocumentID == documentID {
			n++
		}
	}
	return n, nil
}

func (v *vectorStore) DeleteForDocument(_ context.Context, userID string, documentID int64) error {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = filterChunks(s.chunks, func(c domain.Chunk) bool {
		return !(c.UserID == userID && c.DocumentID == documentID)
	})
	return nil
}

func (v *vectorStore) ReplaceForDocument(
	_ context.Context,
	userID string,
	documentID int64,
	chunks []domain.Chunk,
) error {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[documentID]
	if !ok || doc.UserID != userID {
		return domain.ErrNotFound
	}

	s.chunks = filterChunks(s.chunks, func(c domain.Chunk) bool {
		return !(c.UserID == userID && c.DocumentID == documentID)
	})

	now := time.Now()
	for i := range chunks {
		s.nextChunkID++
		chunks[i].ID = s.nextChunkID
		chunks[i].CreatedAt = now
		chunks[i].UserID = userID
		chunks[i].DocumentID = documentID

		stored := chunks[i]
		stored.Vector = copyVector(chunks[i].Vector)
		s.chunks = append(s.chunks, stored)
	}
	return nil
}

func (v *vectorStore) DeleteAllForUser(_ context.Context, userID string) error {
	s := v.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = filterChunks(s.chunks, func(c domain.Chunk) bool {
		return c.UserID != userID
	})
	return nil
}

func copyVector(v []float32) []float32 {
	if v == nil {
		return nil
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
