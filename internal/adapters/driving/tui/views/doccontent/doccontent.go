// Package doccontent is the read-only pager for one document's extracted text.
package doccontent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// chrome is the number of rows taken by the header, rule, position line and help.
const chrome = 8

var errNoDocumentService = errors.New("document service not available")

// View pages through a document with a viewport. Lines are hard-wrapped by
// rune so extracted text without spaces still fits.
type View struct {
	styles *styles.Styles
	docs   driving.DocumentService
	ctx    context.Context

	pager  viewport.Model
	userID string
	shown  *domain.DocumentSummary
	doc    *domain.Document
	lines  []string
	width  int
	height int
	busy   bool
	err    error
}

// NewView builds the pager. A nil s uses the default styles.
func NewView(s *styles.Styles, docs driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		styles: s,
		docs:   docs,
		ctx:    context.Background(),
		width:  80,
		height: 24,
	}
	v.pager = viewport.New(v.textWidth(), v.textHeight())
	v.pager.Style = s.Normal
	return v
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetDocument resets the pager and starts loading summary's content as userID.
func (v *View) SetDocument(userID string, summary domain.DocumentSummary) tea.Cmd {
	v.userID = userID
	v.shown = &summary
	v.doc, v.lines, v.err = nil, nil, nil
	v.busy = true
	v.pager.SetContent("")
	v.pager.GotoTop()
	return v.load(summary.ID)
}

func (v *View) Init() tea.Cmd { return nil }

func (v *View) load(id int64) tea.Cmd {
	ctx, userID, docs := v.ctx, v.userID, v.docs
	return func() tea.Msg {
		if docs == nil {
			return messages.DocumentContentLoaded{DocumentID: id, Err: errNoDocumentService}
		}
		doc, err := docs.Get(ctx, userID, id)
		return messages.DocumentContentLoaded{DocumentID: id, Document: doc, Err: err}
	}
}

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case tea.KeyMsg:
		return v, v.handleKey(msg)

	case messages.DocumentContentLoaded:
		if v.shown == nil || msg.DocumentID != v.shown.ID {
			return v, nil
		}
		v.busy = false
		v.err = msg.Err
		if msg.Err == nil {
			v.doc = msg.Document
			v.reflow()
		}

	case messages.ErrorOccurred:
		v.err = msg.Err
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return func() tea.Msg { return messages.ViewChanged{View: messages.ViewDocuments} }
	case "home", "g":
		v.pager.GotoTop()
	case "end", "G":
		v.pager.GotoBottom()
	default:
		var cmd tea.Cmd
		v.pager, cmd = v.pager.Update(msg)
		return cmd
	}
	return nil
}

// reflow rewraps the document for the current width and keeps the
// scroll position where possible.
func (v *View) reflow() {
	v.lines = nil
	if v.doc != nil && v.doc.Content != "" {
		v.lines = hardWrap(v.doc.Content, v.textWidth())
	}
	offset := v.pager.YOffset
	v.pager.SetContent(strings.Join(v.lines, "\n"))
	v.pager.SetYOffset(offset)
}

func hardWrap(text string, width int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		for len(r) > width {
			out = append(out, string(r[:width]))
			r = r[width:]
		}
		out = append(out, string(r))
	}
	return out
}

func (v *View) textWidth() int  { return max(v.width-4, 20) }
func (v *View) textHeight() int { return max(v.height-chrome, 1) }

func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.header())

	switch {
	case v.busy:
		b.WriteString(v.styles.Muted.Render("Loading content...") + "\n\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: "+v.err.Error()) + "\n\n")
	case len(v.lines) == 0:
		b.WriteString(v.styles.Muted.Render("(No content)") + "\n\n")
	default:
		b.WriteString(v.pager.View() + "\n")
		if len(v.lines) > v.pager.Height {
			first := v.pager.YOffset + 1
			last := min(v.pager.YOffset+v.pager.Height, len(v.lines))
			pos := fmt.Sprintf("  [%.0f%%] Line %d-%d of %d", v.pager.ScrollPercent()*100, first, last, len(v.lines))
			b.WriteString("\n" + v.styles.Muted.Render(pos))
		}
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Help.Render("↑/↓ pgup/pgdn scroll · g/G top/bottom · esc back"))
	return b.String()
}

func (v *View) header() string {
	if v.shown == nil {
		return v.styles.Title.Render("Document") + "\n" + v.rule()
	}
	meta := fmt.Sprintf("Document %d, %d chunks", v.shown.ID, v.shown.ChunkCount)
	if !v.shown.CreatedAt.IsZero() {
		meta += ", uploaded " + v.shown.CreatedAt.Local().Format("2006-01-02 15:04")
	}
	return v.styles.Title.Render(v.shown.Filename) + "\n" + v.styles.Muted.Render(meta) + "\n" + v.rule()
}

func (v *View) rule() string {
	return strings.Repeat("─", min(v.textWidth(), 60)) + "\n\n"
}

// SetDimensions resizes the pager and rewraps the text.
func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.pager.Width = v.textWidth()
	v.pager.Height = v.textHeight()
	v.reflow()
}

// Document is the loaded document, or nil.
func (v *View) Document() *domain.Document { return v.doc }

// Lines are the wrapped lines fed to the pager.
func (v *View) Lines() []string { return v.lines }

// ScrollOffset is the index of the first visible line.
func (v *View) ScrollOffset() int { return v.pager.YOffset }

func (v *View) Err() error { return v.err }
