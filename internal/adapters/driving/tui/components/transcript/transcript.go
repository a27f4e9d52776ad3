// Package transcript renders a scrollable chat conversation.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// EmptyText is shown before the first message.
const EmptyText = "No messages yet. Type a message and press Enter."

const timeLayout = "15:04"

// Transcript shows chat messages in a viewport, rendering bot replies as markdown.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	markdown *glamour.TermRenderer
	messages []domain.Message
	rendered []string
	width    int
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := &Transcript{
		viewport: viewport.New(80, 20),
		styles:   s,
		width:    80,
	}
	t.markdown = newMarkdownRenderer(t.width)
	t.refresh()
	return t
}

func newMarkdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width-4, 20)),
	)
	if err != nil {
		return nil
	}
	return r
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update forwards mouse and scroll messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// View renders the visible part of the conversation.
func (t *Transcript) View() string {
	return t.viewport.View()
}

// SetMessages replaces the conversation and scrolls to the newest message.
func (t *Transcript) SetMessages(messages []domain.Message) {
	t.messages = append([]domain.Message(nil), messages...)
	t.rendered = t.rendered[:0]
	t.refresh()
}

// Append adds one message and scrolls to it.
func (t *Transcript) Append(msg domain.Message) {
	t.messages = append(t.messages, msg)
	t.refresh()
}

// Messages returns the conversation.
func (t *Transcript) Messages() []domain.Message {
	return t.messages
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// ScrollUp moves half a page towards older messages.
func (t *Transcript) ScrollUp() {
	t.viewport.ScrollUp(max(t.viewport.Height/2, 1))
}

// ScrollDown moves half a page towards newer messages.
func (t *Transcript) ScrollDown() {
	t.viewport.ScrollDown(max(t.viewport.Height/2, 1))
}

// AtBottom reports whether the newest message is visible.
func (t *Transcript) AtBottom() bool {
	return t.viewport.AtBottom()
}

// SetDimensions resizes the viewport and rewraps every message.
func (t *Transcript) SetDimensions(width, height int) {
	t.width = width
	t.viewport.Width = width
	t.viewport.Height = max(height, 1)
	t.markdown = newMarkdownRenderer(width)
	t.rendered = t.rendered[:0]
	t.refresh()
}

// refresh renders messages not yet in the cache and rebuilds the viewport.
func (t *Transcript) refresh() {
	if len(t.messages) == 0 {
		t.viewport.SetContent(t.styles.Muted.Render(EmptyText))
		return
	}

	for i := len(t.rendered); i < len(t.messages); i++ {
		t.rendered = append(t.rendered, t.renderMessage(t.messages[i]))
	}

	t.viewport.SetContent(strings.Join(t.rendered, "\n\n"))
	t.viewport.GotoBottom()
}

func (t *Transcript) renderMessage(msg domain.Message) string {
	stamp := ""
	if !msg.CreatedAt.IsZero() {
		stamp = " " + t.styles.Muted.Render(msg.CreatedAt.Local().Format(timeLayout))
	}

	if msg.Sender == domain.SenderBot {
		return t.styles.BotLabel.Render("Bot") + stamp + "\n" + t.renderMarkdown(msg.Text)
	}
	return t.styles.UserLabel.Render("You") + stamp + "\n" + t.styles.Normal.Render(msg.Text)
}

func (t *Transcript) renderMarkdown(text string) string {
	if t.markdown == nil {
		return text
	}
	out, err := t.markdown.Render(text)
	if err != nil {
		return text
	}
	// glamour pads the block with blank lines
	return strings.Trim(out, "\n")
}
