package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string `json:"query" jsonschema:"the question or text to find relevant document chunks for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of chunks to return (default from settings)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput represents a single ranked chunk.
type ChunkOutput struct {
	DocumentID int64   `json:"document_id"`
	Position   int     `json:"position"`
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Message string `json:"message" jsonschema:"the message to answer"`
	Mode    string `json:"mode,omitempty" jsonschema:"chat to answer directly or rag to answer from the user's documents (default: the persisted chat mode, rag if none)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Reply string `json:"reply"`
	Mode  string `json:"mode"`
}

// ListDocumentsInput is the (empty) input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one uploaded document.
type DocumentOutput struct {
	ID         int64  `json:"id"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	Preview    string `json:"preview,omitempty"`
}

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	Path string `json:"path" jsonschema:"absolute path of a PDF, DOCX, TXT, Markdown or HTML file"`
}

// UploadOutput is the output schema for the upload_document tool.
type UploadOutput struct {
	DocumentID  int64  `json:"document_id"`
	Filename    string `json:"filename"`
	ChunkCount  int    `json:"chunk_count"`
	TotalChunks int    `json:"total_chunks"`
	Searchable  bool   `json:"searchable"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Find the chunks of the user's uploaded documents most relevant to a query",
	}, s.handleRetrieve)
	s.tools = append(s.tools, "retrieve")

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Ask docchat a question, optionally grounded in the user's documents",
		}, s.handleAsk)
		s.tools = append(s.tools, "ask")
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List the user's uploaded documents",
		}, s.handleListDocuments)
		s.tools = append(s.tools, "list_documents")
	}

	if s.ports.Ingestion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "upload_document",
			Description: "Extract, chunk and embed a local file so it can be retrieved",
		}, s.handleUpload)
		s.tools = append(s.tools, "upload_document")
	}
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, RetrieveOutput{}, err
	}
	logger.Debug("mcp %s: retrieve %q", uuid.NewString(), input.Query)

	hits, err := s.ports.Retrieval.RetrieveScored(ctx, userID, input.Query, input.TopK)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Chunks: make([]ChunkOutput, len(hits)),
		Count:  len(hits),
	}
	for i := range hits {
		output.Chunks[i] = ChunkOutput{
			DocumentID: hits[i].Chunk.DocumentID,
			Position:   hits[i].Chunk.Position,
			Score:      hits[i].Score,
			Text:       hits[i].Chunk.Text,
		}
	}

	return nil, output, nil
}

// defaultMode is the mode ask uses when the caller names none.
func (s *Server) defaultMode() domain.ChatMode {
	if s.ports.Settings == nil {
		return domain.ChatModeRAG
	}
	return s.ports.Settings.Mode()
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, AskOutput{}, err
	}

	mode := s.defaultMode()
	if input.Mode != "" {
		mode, err = domain.ParseChatMode(input.Mode)
		if err != nil {
			return nil, AskOutput{}, fmt.Errorf("%w: %q", err, input.Mode)
		}
	}
	logger.Debug("mcp %s: ask (%s)", uuid.NewString(), mode)

	reply, err := s.ports.Chat.Send(ctx, userID, mode, input.Message)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Reply: reply, Mode: mode.String()}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	docs, err := s.ports.Document.List(ctx, userID)
	if err != nil {
		return nil, ListDocumentsOutput{}, fmt.Errorf("listing documents: %w", err)
	}

	return nil, ListDocumentsOutput{Documents: documentOutputs(docs), Count: len(docs)}, nil
}

// handleUpload handles the upload_document tool invocation.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, UploadOutput{}, err
	}
	if input.Path == "" {
		return nil, UploadOutput{}, errors.New("path is required")
	}
	if !filepath.IsAbs(input.Path) {
		return nil, UploadOutput{}, fmt.Errorf("path must be absolute: %s", input.Path)
	}
	logger.Debug("mcp %s: upload %s", uuid.NewString(), input.Path)

	result, err := s.ports.Ingestion.IngestFile(ctx, userID, input.Path)
	if err != nil {
		return nil, UploadOutput{}, err
	}

	return nil, UploadOutput{
		DocumentID:  result.Document.ID,
		Filename:    result.Document.Filename,
		ChunkCount:  result.ChunkCount,
		TotalChunks: result.TotalChunks,
		Searchable:  result.Searchable(),
	}, nil
}

func documentOutputs(docs []domain.DocumentSummary) []DocumentOutput {
	out := make([]DocumentOutput, len(docs))
	for i := range docs {
		out[i] = DocumentOutput{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			ChunkCount: docs[i].ChunkCount,
			Preview:    docs[i].Preview,
		}
	}
	return out
}
