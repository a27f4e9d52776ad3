package tui

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

type mockAuthService struct {
	session domain.Session
}

func (m *mockAuthService) SignUp(_ context.Context, email, _ string) (*domain.Identity, error) {
	return &domain.Identity{Email: email}, nil
}

func (m *mockAuthService) Login(context.Context, string, string) (*domain.Session, error) {
	return &m.session, nil
}

func (m *mockAuthService) Logout() error {
	return nil
}

func (m *mockAuthService) Current() (domain.Session, error) {
	if !m.session.IsAuthenticated() {
		return domain.Session{}, domain.ErrAuthRequired
	}
	return m.session, nil
}

type mockChatService struct {
	history []domain.Message
	reply   string
}

func (m *mockChatService) Send(context.Context, string, domain.ChatMode, string) (string, error) {
	return m.reply, nil
}

func (m *mockChatService) History(context.Context, string) ([]domain.Message, error) {
	return m.history, nil
}

func (m *mockChatService) ClearHistory(context.Context, string) error {
	return nil
}

type mockDocumentService struct {
	docs      []domain.DocumentSummary
	gotUserID string
}

func (m *mockDocumentService) List(_ context.Context, userID string) ([]domain.DocumentSummary, error) {
	m.gotUserID = userID
	return m.docs, nil
}

func (m *mockDocumentService) Get(_ context.Context, userID string, id int64) (*domain.Document, error) {
	m.gotUserID = userID
	for _, d := range m.docs {
		if d.ID == id {
			return &domain.Document{ID: id, UserID: userID, Filename: d.Filename, Content: d.Preview}, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Delete(context.Context, string, int64) error {
	return nil
}

func (m *mockDocumentService) Clear(context.Context, string) error {
	return nil
}

func testPorts() *Ports {
	return &Ports{
		Auth:     &mockAuthService{session: domain.Session{UserID: "user-a", Email: "ada@example.com"}},
		Chat:     &mockChatService{reply: "hi"},
		Document: &mockDocumentService{docs: []domain.DocumentSummary{{ID: 1, Filename: "a.txt", Preview: "alpha"}}},
	}
}
