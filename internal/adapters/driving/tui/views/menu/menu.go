// Package menu is the TUI start screen.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// entry is one line of the menu. A zero target with quit set exits the app.
type entry struct {
	label  string
	hint   string
	target messages.ViewType
	quit   bool
}

var entries = []entry{
	{label: "Chat", hint: "ask the assistant, with or without your documents", target: messages.ViewChat},
	{label: "Documents", hint: "browse, read and delete uploads", target: messages.ViewDocuments},
	{label: "Help", hint: "keybindings", target: messages.ViewHelp},
	{label: "Quit", quit: true},
}

// View is the start screen. Entries are picked with the arrow keys or by
// their number.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	user   string
	cursor int
	width  int
	height int
	sized  bool
}

// NewView builds the menu with default keys. A nil s uses the default styles.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		width:  80,
		height: 24,
	}
}

// SetUser shows who is logged in under the title.
func (v *View) SetUser(email string) { v.user = email }

func (v *View) Init() tea.Cmd { return nil }

func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.cursor = max(v.cursor-1, 0)
	case key.Matches(msg, v.keys.Down):
		v.cursor = min(v.cursor+1, len(entries)-1)
	case key.Matches(msg, v.keys.Select):
		return choose(entries[v.cursor])
	case msg.String() == "q":
		return tea.Quit
	default:
		if n, ok := shortcut(msg.String()); ok {
			v.cursor = n
			return choose(entries[n])
		}
	}
	return nil
}

// shortcut maps "1".."9" to an entry index.
func shortcut(s string) (int, bool) {
	if len(s) != 1 || s[0] < '1' || s[0] > '9' {
		return 0, false
	}
	n := int(s[0] - '1')
	return n, n < len(entries)
}

func choose(e entry) tea.Cmd {
	if e.quit {
		return tea.Quit
	}
	target := e.target
	return func() tea.Msg { return messages.ViewChanged{View: target} }
}

func (v *View) View() string {
	if !v.sized {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("docchat") + "\n")

	who := "not logged in"
	if v.user != "" {
		who = "logged in as " + v.user
	}
	b.WriteString(v.styles.Muted.Render(who) + "\n\n")

	for i, e := range entries {
		label := fmt.Sprintf("%d  %s", i+1, e.label)
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render(" "+label+" "))
		} else {
			b.WriteString(" " + v.styles.Normal.Render(label) + " ")
		}
		if e.hint != "" {
			b.WriteString("  " + v.styles.Muted.Render(e.hint))
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n" + v.styles.Help.Render("↑/↓ move · enter or 1-4 open · q quit"))
	return b.String()
}

// SetDimensions records the terminal size; the view renders only after
// the first call.
func (v *View) SetDimensions(width, height int) {
	v.width, v.height = width, height
	v.sized = true
}

// Selected is the index under the cursor.
func (v *View) Selected() int { return v.cursor }
