// Package memory provides in-memory implementations of the storage ports.
// Data lives for the life of the process; it backs tests and the "memory"
// storage backend.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Store holds documents, chunks and messages behind one lock so that
// deleting a document and its chunks is atomic.
type Store struct {
	mu sync.RWMutex

	nextDocID   int64
	nextChunkID int64
	nextMsgID   int64

	documents map[int64]domain.Document
	chunks    []domain.Chunk
	messages  []domain.Message
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		documents: make(map[int64]domain.Document),
	}
}

// DocumentStore returns a DocumentStore view of this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// VectorStore returns a VectorStore view of this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// MessageStore returns a MessageStore view of this store.
func (s *Store) MessageStore() driven.MessageStore {
	return &messageStore{store: s}
}

// Close is a no-op; it exists so Store can stand in for persistent backends.
func (s *Store) Close() error {
	return nil
}

// ==================== Document Store ====================

// Ensure documentStore implements the interface.
var _ driven.DocumentStore = (*documentStore)(nil)

type documentStore struct {
	store *Store
}

func (d *documentStore) Create(_ context.Context, doc *domain.Document) error {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextDocID++
	doc.ID = s.nextDocID
	doc.CreatedAt = time.Now()
	s.documents[doc.ID] = *doc
	return nil
}

func (d *documentStore) Get(_ context.Context, userID string, id int64) (*domain.Document, error) {
	s := d.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

func (d *documentStore) List(_ context.Context, userID string) ([]domain.Document, error) {
	s := d.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0)
	for _, doc := range s.documents {
		if doc.UserID == userID {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (d *documentStore) Delete(_ context.Context, userID string, id int64) error {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[id]
	if !ok || doc.UserID != userID {
		return domain.ErrNotFound
	}

	delete(s.documents, id)
	s.chunks = filterChunks(s.chunks, func(c domain.Chunk) bool {
		return c.DocumentID != id
	})
	return nil
}

func (d *documentStore) DeleteAll(_ context.Context, userID string) error {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, doc := range s.documents {
		if doc.UserID == userID {
			delete(s.documents, id)
		}
	}
	s.chunks = filterChunks(s.chunks, func(c domain.Chunk) bool {
		return c.UserID != userID
	})
	return nil
}

// filterChunks keeps chunks for which keep returns true, preserving order.
func filterChunks(chunks []domain.Chunk, keep func(domain.Chunk) bool) []domain.Chunk {
	out := chunks[:0]
	for _, c := range chunks {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}
