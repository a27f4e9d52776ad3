package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// mockAuthService is a mock implementation of driving.AuthService.
type mockAuthService struct {
	session   domain.Session
	err       error
	loggedOut bool
	gotEmail  string
	gotPass   string
}

func (m *mockAuthService) SignUp(_ context.Context, email, password string) (*domain.Identity, error) {
	m.gotEmail, m.gotPass = email, password
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Identity{UserID: "new-user", Email: email}, nil
}

func (m *mockAuthService) Login(_ context.Context, email, password string) (*domain.Session, error) {
	m.gotEmail, m.gotPass = email, password
	if m.err != nil {
		return nil, m.err
	}
	m.session = domain.Session{UserID: "user-" + email, Email: email}
	return &m.session, nil
}

func (m *mockAuthService) Logout() error {
	m.loggedOut = true
	m.session = domain.Session{}
	return m.err
}

func (m *mockAuthService) Current() (domain.Session, error) {
	if !m.session.IsAuthenticated() {
		return domain.Session{}, domain.ErrAuthRequired
	}
	return m.session, nil
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply    string
	err      error
	history  []domain.Message
	cleared  bool
	gotUser  string
	gotMode  domain.ChatMode
	gotInput string
}

func (m *mockChatService) Send(_ context.Context, userID string, mode domain.ChatMode, message string) (string, error) {
	m.gotUser, m.gotMode, m.gotInput = userID, mode, message
	return m.reply, m.err
}

func (m *mockChatService) History(_ context.Context, userID string) ([]domain.Message, error) {
	m.gotUser = userID
	return m.history, m.err
}

func (m *mockChatService) ClearHistory(_ context.Context, userID string) error {
	m.gotUser = userID
	m.cleared = true
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs      []domain.DocumentSummary
	doc       *domain.Document
	err       error
	deletedID int64
	cleared   bool
	gotUser   string
}

func (m *mockDocumentService) List(_ context.Context, userID string) ([]domain.DocumentSummary, error) {
	m.gotUser = userID
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, userID string, id int64) (*domain.Document, error) {
	m.gotUser = userID
	if m.err != nil {
		return nil, m.err
	}
	if m.doc == nil || m.doc.ID != id {
		return nil, domain.ErrNotFound
	}
	return m.doc, nil
}

func (m *mockDocumentService) Delete(_ context.Context, userID string, id int64) error {
	m.gotUser = userID
	if m.err != nil {
		return m.err
	}
	m.deletedID = id
	return nil
}

func (m *mockDocumentService) Clear(_ context.Context, userID string) error {
	m.gotUser = userID
	m.cleared = m.err == nil
	return m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	mu       sync.Mutex
	results  map[string]*domain.IngestResult
	errs     map[string]error
	ingested []string
	reembed  *domain.IngestResult
	err      error
}

func (m *mockIngestionService) IngestFile(_ context.Context, _, path string) (*domain.IngestResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ingested = append(m.ingested, path)
	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if result, ok := m.results[path]; ok {
		return result, nil
	}
	return &domain.IngestResult{
		Document:    domain.Document{ID: int64(len(m.ingested)), Filename: path},
		TotalChunks: 1,
		ChunkCount:  1,
	}, nil
}

func (m *mockIngestionService) IngestText(_ context.Context, _, filename, _ string) (*domain.IngestResult, error) {
	return &domain.IngestResult{Document: domain.Document{ID: 1, Filename: filename}}, m.err
}

func (m *mockIngestionService) Reembed(_ context.Context, _ string, _ int64) (*domain.IngestResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.reembed, nil
}

func (m *mockIngestionService) SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt", ".md", ".html"}
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	hits     []domain.ScoredChunk
	err      error
	gotUser  string
	gotQuery string
	gotK     int
}

func (m *mockRetrievalService) Retrieve(_ context.Context, userID, query string) ([]string, error) {
	m.gotUser, m.gotQuery = userID, query
	texts := make([]string, 0, len(m.hits))
	for i := range m.hits {
		texts = append(texts, m.hits[i].Chunk.Text)
	}
	return texts, m.err
}

func (m *mockRetrievalService) RetrieveScored(_ context.Context, userID, query string, k int) ([]domain.ScoredChunk, error) {
	m.gotUser, m.gotQuery, m.gotK = userID, query, k
	return m.hits, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
	setErr   error
	set      map[string]string
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		set:      make(map[string]string),
	}
}

func (m *mockSettingsService) Get() domain.AppSettings {
	return m.settings
}

func (m *mockSettingsService) Mode() domain.ChatMode {
	return m.settings.Mode
}

func (m *mockSettingsService) SetMode(mode domain.ChatMode) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.settings.Mode = mode
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"embedding.provider", "llm.provider", "retrieval.top_k"}
}

func (m *mockSettingsService) ConfigPath() string {
	return "/tmp/docchat/config.toml"
}

// mockAIValidator is a mock implementation of driven.AIConfigValidator.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
}

func (m *mockAIValidator) ValidateEmbedding(_ context.Context, _ *domain.EmbeddingSettings) error {
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, _ *domain.LLMSettings) error {
	return m.llmErr
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	auth      *mockAuthService
	chat      *mockChatService
	document  *mockDocumentService
	ingestion *mockIngestionService
	retrieval *mockRetrievalService
	settings  *mockSettingsService
	validator *mockAIValidator
}
