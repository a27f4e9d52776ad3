// Package tui is the interactive terminal client: a menu, a chat view with
// a chat/rag mode toggle, a document list and a document pager.
package tui

import (
	"errors"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var (
	ErrMissingAuthService     = errors.New("tui: auth service is required")
	ErrMissingChatService     = errors.New("tui: chat service is required")
	ErrMissingDocumentService = errors.New("tui: document service is required")
)

// Ports are the services the TUI drives. Settings is optional; without it
// the mode toggle lasts only for the session.
type Ports struct {
	Auth     driving.AuthService
	Chat     driving.ChatService
	Document driving.DocumentService
	Settings driving.SettingsService
}

// Validate reports the first required port that is missing.
func (p *Ports) Validate() error {
	switch {
	case p.Auth == nil:
		return ErrMissingAuthService
	case p.Chat == nil:
		return ErrMissingChatService
	case p.Document == nil:
		return ErrMissingDocumentService
	}
	return nil
}
