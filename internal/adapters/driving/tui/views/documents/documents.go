// Package documents provides the documents list view component for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// View is the documents list view.
type View struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	list            *list.DocumentList
	documentService driving.DocumentService
	ctx             context.Context

	userID     string
	width      int
	height     int
	ready      bool
	err        error
	notice     string
	loading    bool
	confirming *domain.DocumentSummary
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		keymap:          keymap.DefaultKeyMap(),
		list:            list.NewDocumentList(s),
		documentService: documentService,
		ctx:             context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetUser scopes the view to a user.
func (v *View) SetUser(userID string) {
	v.userID = userID
}

// Init loads the user's documents.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	v.notice = ""
	v.confirming = nil
	return v.loadDocuments()
}

// loadDocuments returns a command that lists the user's documents.
func (v *View) loadDocuments() tea.Cmd {
	ctx, userID, svc := v.ctx, v.userID, v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentsLoaded{Err: fmt.Errorf("document service not available")}
		}
		docs, err := svc.List(ctx, userID)
		return messages.DocumentsLoaded{Documents: docs, Err: err}
	}
}

// deleteDocument returns a command that deletes one document.
func (v *View) deleteDocument(id int64) tea.Cmd {
	ctx, userID, svc := v.ctx, v.userID, v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentDeleted{DocumentID: id, Err: fmt.Errorf("document service not available")}
		}
		return messages.DocumentDeleted{DocumentID: id, Err: svc.Delete(ctx, userID, id)}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming != nil {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.list.SetDocuments(msg.Documents)
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = fmt.Sprintf("Deleted document %d", msg.DocumentID)
		v.loading = true
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Up), key.Matches(msg, v.keymap.Down):
		v.list, _ = v.list.Update(msg)
	case key.Matches(msg, v.keymap.Select):
		if doc := v.list.SelectedDocument(); doc != nil {
			selected := *doc
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: selected}
			}
		}
	case key.Matches(msg, v.keymap.Delete):
		if doc := v.list.SelectedDocument(); doc != nil {
			selected := *doc
			v.confirming = &selected
		}
	case key.Matches(msg, v.keymap.Reload):
		v.loading = true
		v.notice = ""
		return v, v.loadDocuments()
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// handleConfirmKey handles the delete confirmation prompt.
func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	doc := v.confirming
	v.confirming = nil

	switch msg.String() {
	case "y", "Y":
		return v, v.deleteDocument(doc.ID)
	default:
		v.notice = "Cancelled."
		return v, nil
	}
}

// View renders the documents view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documents (%d)", v.list.Count())))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	default:
		b.WriteString(v.list.View())
	}
	b.WriteString("\n\n")

	if v.confirming != nil {
		b.WriteString(v.styles.Warning.Render(
			fmt.Sprintf("Delete %s and its chunks? [y/N]", v.confirming.Filename)))
		return b.String()
	}

	if v.notice != "" {
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] view  [d] delete  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	// Reserve lines for title, notices and help
	v.list.SetDimensions(width, height-8)
}

// Documents returns the current list of documents.
func (v *View) Documents() []domain.DocumentSummary {
	return v.list.Documents()
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentSummary {
	return v.list.SelectedDocument()
}

// Confirming returns true while the delete prompt is shown.
func (v *View) Confirming() bool {
	return v.confirming != nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
