package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestionService = (*IngestionService)(nil)

// IngestionService extracts, chunks, embeds and persists uploaded documents.
type IngestionService struct {
	extractors driven.ExtractorRegistry
	documents  driven.DocumentStore
	vectors    driven.VectorStore
	embedding  driven.EmbeddingService
	chunker    driven.Chunker
	workers    int
}

// NewIngestionService creates an ingestion service.
// embedding may be nil: documents are then persisted without any chunks.
func NewIngestionService(
	extractors driven.ExtractorRegistry,
	documents driven.DocumentStore,
	vectors driven.VectorStore,
	embedding driven.EmbeddingService,
	chunker driven.Chunker,
	workers int,
) *IngestionService {
	if workers <= 0 {
		workers = domain.DefaultIngestWorkers
	}
	return &IngestionService{
		extractors: extractors,
		documents:  documents,
		vectors:    vectors,
		embedding:  embedding,
		chunker:    chunker,
		workers:    workers,
	}
}

// SupportedExtensions lists the file extensions IngestFile accepts.
func (s *IngestionService) SupportedExtensions() []string {
	if s.extractors == nil {
		return nil
	}
	return s.extractors.Extensions()
}

// IngestFile extracts the text of the file at path and ingests it.
// Nothing is persisted if the type is unsupported or no text comes out.
func (s *IngestionService) IngestFile(ctx context.Context, userID, path string) (*domain.IngestResult, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	if s.extractors == nil || !s.extractors.Supports(path) {
		return nil, domain.ErrUnsupportedFileType
	}

	logger.Section("Ingest")
	logger.Debug("File: %s", path)

	text, err := s.extractors.Extract(ctx, path)
	if err != nil {
		logger.Warn("Extraction failed for %s: %v", path, err)
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyExtraction, filepath.Base(path))
	}

	return s.IngestText(ctx, userID, filepath.Base(path), text)
}

// IngestText persists a document for text and embeds its chunks.
func (s *IngestionService) IngestText(
	ctx context.Context,
	userID, filename, text string,
) (*domain.IngestResult, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyExtraction
	}

	doc := &domain.Document{
		UserID:   userID,
		Filename: filename,
		Content:  text,
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	logger.Debug("Document %d created for %s (%d characters)", doc.ID, filename, len(text))

	return s.persistChunks(ctx, doc)
}

// Reembed rebuilds a document's chunk records from its stored content. The
// old records are swapped out only once at least one new embedding exists;
// otherwise they are left untouched and ErrEmbeddingUnavailable is returned.
func (s *IngestionService) Reembed(
	ctx context.Context,
	userID string,
	documentID int64,
) (*domain.IngestResult, error) {
	if userID == "" {
		return nil, domain.ErrAuthRequired
	}

	doc, err := s.documents.Get(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}

	logger.Section("Re-embed")
	result, embedded, err := s.embedChunks(ctx, doc)
	if err != nil {
		return nil, err
	}
	if result.TotalChunks > 0 && len(embedded) == 0 {
		return nil, fmt.Errorf("%w: document %d keeps its existing chunks", domain.ErrEmbeddingUnavailable, doc.ID)
	}

	if err := s.vectors.ReplaceForDocument(ctx, userID, doc.ID, embedded); err != nil {
		return nil, fmt.Errorf("replace chunks: %w", err)
	}
	logger.Info("Document %d: %d of %d chunks searchable", doc.ID, result.ChunkCount, result.TotalChunks)
	return result, nil
}

// persistChunks stores freshly embedded chunks for a new document.
func (s *IngestionService) persistChunks(
	ctx context.Context,
	doc *domain.Document,
) (*domain.IngestResult, error) {
	result, embedded, err := s.embedChunks(ctx, doc)
	if err != nil {
		return nil, err
	}
	for i := range embedded {
		if err := s.vectors.Persist(ctx, &embedded[i]); err != nil {
			return nil, fmt.Errorf("persist chunk %d: %w", embedded[i].Position, err)
		}
	}
	logger.Info("Document %d: %d of %d chunks searchable", doc.ID, result.ChunkCount, result.TotalChunks)
	return result, nil
}

// embedChunks chunks doc and embeds the chunks in parallel. It returns the
// chunks whose embedding succeeded, in position order; failed chunks are
// skipped and counted.
func (s *IngestionService) embedChunks(
	ctx context.Context,
	doc *domain.Document,
) (*domain.IngestResult, []domain.Chunk, error) {
	chunks := s.chunker.Process(doc)
	result := &domain.IngestResult{
		Document:    *doc,
		TotalChunks: len(chunks),
	}
	logger.Debug("%s produced %d chunks", s.chunker.Name(), len(chunks))

	if s.embedding == nil {
		logger.Warn("%v: document %d has no embedded chunks", domain.ErrEmbeddingUnavailable, doc.ID)
		result.Skipped = len(chunks)
		return result, nil, nil
	}

	defer logger.Timed(fmt.Sprintf("embedding %d chunks", len(chunks)))()

	ok := make([]bool, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range chunks {
		chunk := &chunks[i]
		g.Go(func() error {
			vec, err := s.embedding.Embed(gctx, chunk.Text)
			if err != nil {
				logger.Warn("Chunk %d of document %d not embedded: %v", chunk.Position, doc.ID, err)
				return nil
			}
			if len(vec) == 0 {
				logger.Warn("Chunk %d of document %d got an empty embedding", chunk.Position, doc.ID)
				return nil
			}
			chunk.Vector = vec
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	embedded := make([]domain.Chunk, 0, len(chunks))
	for i := range chunks {
		if ok[i] {
			embedded = append(embedded, chunks[i])
		}
	}
	result.ChunkCount = len(embedded)
	result.Skipped = result.TotalChunks - result.ChunkCount
	return result, embedded, nil
}
