package domain

import "time"

// PreviewLength is the number of characters of content shown in document listings.
const PreviewLength = 200

// Document is text extracted from one uploaded file.
// Documents are never mutated after creation; deleting one deletes its chunks.
type Document struct {
	// ID is the store-assigned surrogate key.
	ID int64

	// UserID is the owning user. Every lookup filters on it.
	UserID string

	// Filename is the sanitised name of the uploaded file.
	Filename string

	// Content is the full extracted text.
	Content string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// Preview returns the first PreviewLength characters of the content,
// with an ellipsis appended when the content is longer.
func (d Document) Preview() string {
	runes := []rune(d.Content)
	if len(runes) <= PreviewLength {
		return d.Content
	}
	return string(runes[:PreviewLength]) + "..."
}

// Chunk is a contiguous slice of a document's content together with its embedding.
// A chunk record only exists once its embedding succeeded, so Text and Vector
// are always both present.
type Chunk struct {
	// ID is the store-assigned surrogate key.
	ID int64

	// DocumentID is the owning document.
	DocumentID int64

	// UserID duplicates the document owner so per-user scans need no join.
	UserID string

	// Position is the chunk's index within the document.
	Position int

	// Text is at most the configured chunk size in characters.
	Text string

	// Vector is the embedding of Text.
	Vector []float32

	// CreatedAt is when the chunk was persisted.
	CreatedAt time.Time
}

// Dimensions returns the length of the chunk's vector.
func (c Chunk) Dimensions() int {
	return len(c.Vector)
}

// ScoredChunk is a ranked retrieval hit.
type ScoredChunk struct {
	Chunk Chunk

	// Score is the cosine similarity to the query vector, in [-1, 1].
	Score float64
}

// DocumentSummary is a document as shown in listings.
type DocumentSummary struct {
	ID         int64
	Filename   string
	ChunkCount int
	Preview    string
	CreatedAt  time.Time
}

// NewDocumentSummary builds a listing entry for doc with the given chunk count.
func NewDocumentSummary(doc Document, chunkCount int) DocumentSummary {
	return DocumentSummary{
		ID:         doc.ID,
		Filename:   doc.Filename,
		ChunkCount: chunkCount,
		Preview:    doc.Preview(),
		CreatedAt:  doc.CreatedAt,
	}
}

// IngestResult reports the outcome of ingesting one document.
type IngestResult struct {
	// Document is the persisted document.
	Document Document

	// TotalChunks is the number of non-empty chunks produced by the chunker.
	TotalChunks int

	// ChunkCount is the number of chunks whose embedding succeeded and were persisted.
	ChunkCount int

	// Skipped is the number of chunks dropped because embedding failed.
	Skipped int
}

// Searchable reports whether at least one chunk was embedded.
// An unsearchable result still has a persisted Document.
func (r IngestResult) Searchable() bool {
	return r.ChunkCount > 0
}
