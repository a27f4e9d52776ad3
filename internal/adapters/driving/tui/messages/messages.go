// Package messages holds the tea.Msg types passed between the TUI views.
// Results of service calls carry their error instead of a separate
// failure message so each view handles both outcomes in one place.
package messages

import "github.com/custodia-labs/docchat/internal/core/domain"

// ViewType identifies a screen.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewChat
	ViewDocuments
	ViewDocContent
	ViewHelp
)

var viewNames = [...]string{
	ViewMenu:       "menu",
	ViewChat:       "chat",
	ViewDocuments:  "documents",
	ViewDocContent: "doc_content",
	ViewHelp:       "help",
}

func (v ViewType) String() string {
	if v < 0 || int(v) >= len(viewNames) {
		return "unknown"
	}
	return viewNames[v]
}

// Navigation.
type (
	ViewChanged struct{ View ViewType }
	Quit        struct{}
)

// ErrorOccurred reports a failure not tied to a particular request.
type ErrorOccurred struct{ Err error }

// Chat results.
type (
	HistoryLoaded struct {
		Messages []domain.Message
		Err      error
	}

	// ReplyReceived echoes the sent Message alongside the assistant's Reply.
	ReplyReceived struct {
		Message string
		Reply   string
		Err     error
	}

	HistoryCleared struct{ Err error }

	ModeChanged struct {
		Mode domain.ChatMode
		Err  error
	}
)

// Document results.
type (
	DocumentsLoaded struct {
		Documents []domain.DocumentSummary
		Err       error
	}

	DocumentSelected struct{ Document domain.DocumentSummary }

	DocumentContentLoaded struct {
		DocumentID int64
		Document   *domain.Document
		Err        error
	}

	DocumentDeleted struct {
		DocumentID int64
		Err        error
	}
)
