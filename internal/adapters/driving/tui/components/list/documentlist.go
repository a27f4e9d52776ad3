// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentList displays document summaries in a navigable list.
type DocumentList struct {
	documents []domain.DocumentSummary
	selected  int
	styles    *styles.Styles
	width     int
	height    int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (l *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the list.
func (l *DocumentList) View() string {
	if len(l.documents) == 0 {
		return l.styles.Muted.Render("No documents uploaded yet.")
	}

	// Each document takes two lines
	visibleCount := l.height / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if l.selected >= visibleCount {
		start = l.selected - visibleCount + 1
	}
	end := min(start+visibleCount, len(l.documents))

	lines := make([]string, 0, (end-start)+1)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderDocument(i, &l.documents[i]))
	}

	if len(l.documents) > visibleCount {
		lines = append(lines, l.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", start+1, end, len(l.documents))))
	}

	return strings.Join(lines, "\n")
}

// renderDocument formats one document with its chunk count and preview.
func (l *DocumentList) renderDocument(index int, doc *domain.DocumentSummary) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	maxNameLen := l.width - 20
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	name := truncate(doc.Filename, maxNameLen)
	chunks := fmt.Sprintf("%d chunks", doc.ChunkCount)

	var nameLine string
	if index == l.selected {
		nameLine = l.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxNameLen, name, chunks))
	} else {
		nameLine = l.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxNameLen, name)) +
			l.styles.Muted.Render(chunks)
	}

	preview := strings.Join(strings.Fields(doc.Preview), " ")
	previewLine := l.styles.Muted.Render("    " + truncate(preview, max(l.width-6, 20)))

	return nameLine + "\n" + previewLine
}

// SetDocuments replaces the list, keeping the selection in range.
func (l *DocumentList) SetDocuments(documents []domain.DocumentSummary) {
	l.documents = documents
	if l.selected >= len(documents) {
		l.selected = max(len(documents)-1, 0)
	}
}

// Documents returns the current documents.
func (l *DocumentList) Documents() []domain.DocumentSummary {
	return l.documents
}

// Selected returns the index of the selected document.
func (l *DocumentList) Selected() int {
	return l.selected
}

// SelectedDocument returns the selected document, or nil if the list is empty.
func (l *DocumentList) SelectedDocument() *domain.DocumentSummary {
	if l.selected < 0 || l.selected >= len(l.documents) {
		return nil
	}
	return &l.documents[l.selected]
}

// MoveUp moves selection up.
func (l *DocumentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *DocumentList) MoveDown() {
	if l.selected < len(l.documents)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *DocumentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of documents.
func (l *DocumentList) Count() int {
	return len(l.documents)
}

// IsEmpty returns whether the list is empty.
func (l *DocumentList) IsEmpty() bool {
	return len(l.documents) == 0
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
