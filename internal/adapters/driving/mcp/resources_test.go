package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name       string
		uri        string
		expectedID int64
		expectedOK bool
	}{
		{name: "valid document URI", uri: "docchat://documents/42", expectedID: 42, expectedOK: true},
		{name: "invalid prefix", uri: "file://documents/42"},
		{name: "non-numeric id", uri: "docchat://documents/abc"},
		{name: "zero id", uri: "docchat://documents/0"},
		{name: "empty URI", uri: ""},
		{name: "nested path", uri: "docchat://documents/4/2"},
		{name: "history URI", uri: "docchat://history/4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := extractDocumentID(tt.uri)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedID, id)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns documents as JSON", func(t *testing.T) {
		docs := &mockDocumentService{
			summaries: []domain.DocumentSummary{{ID: 3, Filename: "report.pdf", ChunkCount: 4}},
		}
		server, err := NewServer(&Ports{Auth: loggedIn("user-a"), Retrieval: &mockRetrievalService{}, Document: docs})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docchat://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var decoded []DocumentOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &decoded))
		require.Len(t, decoded, 1)
		assert.Equal(t, "report.pdf", decoded[0].Filename)
		assert.Equal(t, "user-a", docs.gotUserID)
	})

	t.Run("empty list encodes as empty array", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Auth:      loggedIn("user-a"),
			Retrieval: &mockRetrievalService{},
			Document:  &mockDocumentService{},
		})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("docchat://documents"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("list failure is returned", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Auth:      loggedIn("user-a"),
			Retrieval: &mockRetrievalService{},
			Document:  &mockDocumentService{err: errors.New("db down")},
		})
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest("docchat://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestServer_handleDocumentContentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document content", func(t *testing.T) {
		docs := &mockDocumentService{document: &domain.Document{ID: 5, Content: "full text"}}
		server, err := NewServer(&Ports{Auth: loggedIn("user-a"), Retrieval: &mockRetrievalService{}, Document: docs})
		require.NoError(t, err)

		result, err := server.handleDocumentContentResource(ctx, makeReadResourceRequest("docchat://documents/5"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "full text", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("other user's document is not found", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Auth: loggedIn("user-a"), Retrieval: &mockRetrievalService{}, Document: docs})
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx, makeReadResourceRequest("docchat://documents/5"))

		require.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		docs := &mockDocumentService{}
		server, err := NewServer(&Ports{Auth: loggedIn("user-a"), Retrieval: &mockRetrievalService{}, Document: docs})
		require.NoError(t, err)

		_, err = server.handleDocumentContentResource(ctx, makeReadResourceRequest("docchat://documents/x"))

		require.Error(t, err)
		assert.Empty(t, docs.gotUserID)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 2, 3, 10, 4, 0, 0, time.UTC)

	t.Run("renders transcript", func(t *testing.T) {
		chat := &mockChatService{history: []domain.Message{
			{Text: "what is in the report?", Sender: domain.SenderUser, CreatedAt: at},
			{Text: "Revenue figures.", Sender: domain.SenderBot, CreatedAt: at},
		}}
		server, err := NewServer(&Ports{Auth: loggedIn("user-a"), Retrieval: &mockRetrievalService{}, Chat: chat})
		require.NoError(t, err)

		result, err := server.handleHistoryResource(ctx, makeReadResourceRequest("docchat://history"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, "You [2026-02-03 10:04]:\nwhat is in the report?")
		assert.Contains(t, text, "Bot [2026-02-03 10:04]:\nRevenue figures.")
		assert.Equal(t, "user-a", chat.gotUserID)
	})

	t.Run("not logged in", func(t *testing.T) {
		server, err := NewServer(&Ports{Auth: &mockAuthService{}, Retrieval: &mockRetrievalService{}, Chat: &mockChatService{}})
		require.NoError(t, err)

		_, err = server.handleHistoryResource(ctx, makeReadResourceRequest("docchat://history"))
		assert.Error(t, err)
	})
}
