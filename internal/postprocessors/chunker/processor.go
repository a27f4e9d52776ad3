// Package chunker splits document text into fixed-size, non-overlapping chunks.
//
// Chunks are cut on character (rune) boundaries with no awareness of words or
// sentences. Concatenating the output of Split reproduces the trimmed input exactly.
package chunker

import (
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// Processor splits document content into fixed-size chunks.
type Processor struct {
	chunkSize int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters. Non-positive sizes are ignored.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured chunk size in characters.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Split trims text and cuts it into consecutive pieces of chunkSize characters.
// Every piece but the last is exactly chunkSize long. Empty input yields nil.
func (p *Processor) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	pieces := make([]string, 0, (len(runes)+p.chunkSize-1)/p.chunkSize)
	for start := 0; start < len(runes); start += p.chunkSize {
		end := start + p.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}

	return pieces
}

// Process splits the document content into chunks ready for embedding.
// Whitespace-only pieces are dropped; Position keeps the piece's index in
// the full split so gaps show where pieces were dropped.
func (p *Processor) Process(doc *domain.Document) []domain.Chunk {
	pieces := p.Split(doc.Content)
	chunks := make([]domain.Chunk, 0, len(pieces))

	for i, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: doc.ID,
			UserID:     doc.UserID,
			Position:   i,
			Text:       piece,
		})
	}

	return chunks
}
