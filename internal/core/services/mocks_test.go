package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// --- Mock implementations ---

var (
	_ driven.EmbeddingService  = (*mockEmbeddingService)(nil)
	_ driven.LLMService        = (*mockLLMService)(nil)
	_ driven.IdentityProvider  = (*mockIdentityProvider)(nil)
	_ driven.ExtractorRegistry = (*mockExtractorRegistry)(nil)
	_ driven.VectorStore       = (*failingVectorStore)(nil)
)

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are looked up by exact text; unknown texts get defaultVec.
type mockEmbeddingService struct {
	mu         sync.Mutex
	vectors    map[string][]float32
	defaultVec []float32
	failFor    map[string]bool
	embedErr   error
	calls      []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, text)

	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.failFor[text] {
		return nil, errors.New("embedding service timeout")
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return m.defaultVec, nil
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply      string
	err        error
	lastPrompt string
}

func (m *mockLLMService) Generate(_ context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	return m.reply, m.err
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

// mockRetrievalService implements driving.RetrievalService for testing.
type mockRetrievalService struct {
	chunks []string
	err    error
}

func (m *mockRetrievalService) Retrieve(_ context.Context, _, _ string) ([]string, error) {
	return m.chunks, m.err
}

func (m *mockRetrievalService) RetrieveScored(
	_ context.Context, _, _ string, _ int,
) ([]domain.ScoredChunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.ScoredChunk, len(m.chunks))
	for i, c := range m.chunks {
		out[i] = domain.ScoredChunk{Chunk: domain.Chunk{Text: c}, Score: 1}
	}
	return out, nil
}

// mockIdentityProvider implements driven.IdentityProvider for testing.
type mockIdentityProvider struct {
	identity *domain.Identity
	err      error
}

func (m *mockIdentityProvider) SignUp(_ context.Context, email, _ string) (*domain.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	id := *m.identity
	id.Email = email
	return &id, nil
}

func (m *mockIdentityProvider) SignIn(_ context.Context, email, _ string) (*domain.Identity, error) {
	return m.SignUp(context.Background(), email, "")
}

// mockExtractorRegistry implements driven.ExtractorRegistry for testing.
type mockExtractorRegistry struct {
	texts map[string]string
	err   error
}

func (m *mockExtractorRegistry) Register(_ driven.Extractor) {}

func (m *mockExtractorRegistry) Supports(path string) bool {
	_, ok := m.texts[path]
	return ok
}

func (m *mockExtractorRegistry) Extract(_ context.Context, path string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.texts[path], nil
}

func (m *mockExtractorRegistry) Extensions() []string { return []string{"txt"} }

// failingVectorStore wraps a vector store and fails Persist.
type failingVectorStore struct {
	persistErr error
}

func (f *failingVectorStore) Persist(_ context.Context, _ *domain.Chunk) error { return f.persistErr }

func (f *failingVectorStore) FetchAllForUser(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, f.persistErr
}

func (f *failingVectorStore) CountForDocument(_ context.Context, _ string, _ int64) (int, error) {
	return 0, f.persistErr
}

func (f *failingVectorStore) DeleteForDocument(_ context.Context, _ string, _ int64) error {
	return f.persistErr
}

func (f *failingVectorStore) ReplaceForDocument(_ context.Context, _ string, _ int64, _ []domain.Chunk) error {
	return f.persistErr
}

func (f *failingVectorStore) DeleteAllForUser(_ context.Context, _ string) error { return f.persistErr }
