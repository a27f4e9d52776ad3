package mcp

import (
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Auth resolves the session user for every request.
	Auth driving.AuthService

	// Retrieval ranks chunks for the retrieve tool.
	Retrieval driving.RetrievalService

	// Chat answers the ask tool. Optional.
	Chat driving.ChatService

	// Document lists and reads documents. Optional.
	Document driving.DocumentService

	// Ingestion handles upload_document. Optional.
	Ingestion driving.IngestionService

	// Settings supplies the persisted chat mode for ask. Optional; without
	// it ask defaults to rag.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Auth == nil {
		return ErrMissingAuthService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
