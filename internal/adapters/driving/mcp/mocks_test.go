package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// mockAuthService is a mock implementation of driving.AuthService.
type mockAuthService struct {
	session domain.Session
	err     error
}

func (m *mockAuthService) SignUp(_ context.Context, email, _ string) (*domain.Identity, error) {
	return &domain.Identity{Email: email}, m.err
}

func (m *mockAuthService) Login(_ context.Context, _, _ string) (*domain.Session, error) {
	return &m.session, m.err
}

func (m *mockAuthService) Logout() error {
	return m.err
}

func (m *mockAuthService) Current() (domain.Session, error) {
	if m.err != nil {
		return domain.Session{}, m.err
	}
	if !m.session.IsAuthenticated() {
		return domain.Session{}, domain.ErrAuthRequired
	}
	return m.session, nil
}

func loggedIn(userID string) *mockAuthService {
	return &mockAuthService{session: domain.Session{UserID: userID, Email: userID + "@example.com"}}
}

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	hits      []domain.ScoredChunk
	err       error
	gotUserID string
	gotQuery  string
	gotK      int
}

func (m *mockRetrievalService) Retrieve(ctx context.Context, userID, query string) ([]string, error) {
	hits, err := m.RetrieveScored(ctx, userID, query, 0)
	texts := make([]string, len(hits))
	for i := range hits {
		texts[i] = hits[i].Chunk.Text
	}
	return texts, err
}

func (m *mockRetrievalService) RetrieveScored(
	_ context.Context,
	userID, query string,
	k int,
) ([]domain.ScoredChunk, error) {
	m.gotUserID, m.gotQuery, m.gotK = userID, query, k
	return m.hits, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	history   []domain.Message
	reply     string
	err       error
	gotUserID string
	gotMode   domain.ChatMode
}

func (m *mockChatService) Send(_ context.Context, userID string, mode domain.ChatMode, _ string) (string, error) {
	m.gotUserID, m.gotMode = userID, mode
	return m.reply, m.err
}

func (m *mockChatService) History(_ context.Context, userID string) ([]domain.Message, error) {
	m.gotUserID = userID
	return m.history, m.err
}

func (m *mockChatService) ClearHistory(_ context.Context, _ string) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	summaries []domain.DocumentSummary
	document  *domain.Document
	err       error
	gotUserID string
}

func (m *mockDocumentService) List(_ context.Context, userID string) ([]domain.DocumentSummary, error) {
	m.gotUserID = userID
	return m.summaries, m.err
}

func (m *mockDocumentService) Get(_ context.Context, userID string, _ int64) (*domain.Document, error) {
	m.gotUserID = userID
	return m.document, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string, _ int64) error {
	return m.err
}

func (m *mockDocumentService) Clear(_ context.Context, _ string) error {
	return m.err
}

// mockIngestionService is a mock implementation of driving.IngestionService.
type mockIngestionService struct {
	result  *domain.IngestResult
	err     error
	gotPath string
}

func (m *mockIngestionService) IngestFile(_ context.Context, _, path string) (*domain.IngestResult, error) {
	m.gotPath = path
	return m.result, m.err
}

func (m *mockIngestionService) IngestText(_ context.Context, _, _, _ string) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestionService) Reembed(_ context.Context, _ string, _ int64) (*domain.IngestResult, error) {
	return m.result, m.err
}

func (m *mockIngestionService) SupportedExtensions() []string {
	return []string{"pdf", "txt"}
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	mode domain.ChatMode
}

func (m *mockSettingsService) Get() domain.AppSettings { return domain.AppSettings{Mode: m.mode} }

func (m *mockSettingsService) Mode() domain.ChatMode { return m.mode }

func (m *mockSettingsService) SetMode(mode domain.ChatMode) error {
	m.mode = mode
	return nil
}

func (m *mockSettingsService) Set(_, _ string) error { return nil }

func (m *mockSettingsService) Keys() []string { return nil }

func (m *mockSettingsService) ConfigPath() string { return "" }
