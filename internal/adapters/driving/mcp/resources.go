package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

const (
	documentsURI = "docchat://documents"
	historyURI   = "docchat://history"
)

// registerResources exposes the document list, each document's text and,
// with a chat port, the conversation history.
func (s *Server) registerResources() {
	if s.ports.Document != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         documentsURI,
			Name:        "documents",
			Description: "The logged-in user's uploaded documents",
			MIMEType:    "application/json",
		}, s.handleDocumentsResource)

		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: documentsURI + "/{documentId}",
			Name:        "document-content",
			Description: "Extracted text of one uploaded document",
			MIMEType:    "text/plain",
		}, s.handleDocumentContentResource)
	}

	if s.ports.Chat != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         historyURI,
			Name:        "history",
			Description: "The logged-in user's chat history, oldest first",
			MIMEType:    "text/plain",
		}, s.handleHistoryResource)
	}
}

func textResource(uri, mime, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mime, Text: text}},
	}
}

func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	docs, err := s.ports.Document.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	data, err := json.MarshalIndent(documentOutputs(docs), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding documents: %w", err)
	}
	return textResource(req.Params.URI, "application/json", string(data)), nil
}

func (s *Server) handleDocumentContentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	docID, ok := extractDocumentID(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	doc, err := s.ports.Document.Get(ctx, userID, docID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil, mcp.ResourceNotFoundError(uri)
	case err != nil:
		return nil, fmt.Errorf("reading document %d: %w", docID, err)
	}
	return textResource(uri, "text/plain", doc.Content), nil
}

// handleHistoryResource renders the transcript the same way `docchat history` does.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	history, err := s.ports.Chat.History(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	var b strings.Builder
	for _, m := range history {
		who := "You"
		if m.Sender == domain.SenderBot {
			who = "Bot"
		}
		fmt.Fprintf(&b, "%s [%s]:\n%s\n\n", who, m.CreatedAt.Format("2006-01-02 15:04"), m.Text)
	}
	return textResource(req.Params.URI, "text/plain", b.String()), nil
}

// extractDocumentID parses docchat://documents/{id}. Only positive ids match.
func extractDocumentID(uri string) (int64, bool) {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "docchat" || u.Host != "documents" {
		return 0, false
	}
	dir, last := path.Split(u.Path)
	if dir != "/" {
		return 0, false
	}
	id, err := strconv.ParseInt(last, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
