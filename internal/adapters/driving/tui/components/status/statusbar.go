// Package status renders the one-line bar under the chat input.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// State is what the bar reports on its left side.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
)

// Bar shows the mode badge, the user and the current state on the left and
// short key help on the right. It is driven entirely through setters.
type Bar struct {
	styles   *styles.Styles
	help     help.Model
	bindings []key.Binding
	state    State
	message  string
	mode     domain.ChatMode
	user     string
	width    int
}

// NewBar builds a bar with the chat view's key help. Nil arguments fall
// back to the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = s.Normal
	h.Styles.ShortDesc = s.Muted
	h.Styles.ShortSeparator = s.Muted

	return &Bar{
		styles:   s,
		help:     h,
		bindings: km.ChatHelp(),
		state:    StateReady,
		mode:     domain.ChatModePlain,
		width:    80,
	}
}

func (s *Bar) Init() tea.Cmd { return nil }

func (s *Bar) Update(tea.Msg) (*Bar, tea.Cmd) { return s, nil }

func (s *Bar) View() string {
	left := s.left()
	// the style pads one cell on each side
	room := s.width - 2 - lipgloss.Width(left)

	s.help.Width = max(room-1, 0)
	right := s.help.ShortHelpView(s.bindings)

	gap := max(room-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) left() string {
	parts := []string{s.styles.Mode.Render(strings.ToUpper(s.mode.String()))}
	if s.user != "" {
		parts = append(parts, s.styles.Normal.Render(s.user))
	}

	switch {
	case s.state == StateThinking:
		parts = append(parts, s.styles.Warning.Render("Thinking..."))
	case s.state == StateError && s.message == "":
		parts = append(parts, s.styles.Error.Render("Error"))
	case s.state == StateError:
		parts = append(parts, s.styles.Error.Render("Error: "+s.message))
	case s.message != "":
		parts = append(parts, s.styles.Muted.Render(s.message))
	}
	return strings.Join(parts, " ")
}

func (s *Bar) SetState(state State) { s.state = state }
func (s *Bar) State() State         { return s.state }

// SetMessage sets the note shown next to the state. In the error state it
// is the error text.
func (s *Bar) SetMessage(message string) { s.message = message }
func (s *Bar) Message() string           { return s.message }

func (s *Bar) SetMode(mode domain.ChatMode) { s.mode = mode }
func (s *Bar) Mode() domain.ChatMode        { return s.mode }

func (s *Bar) SetUser(user string) { s.user = user }

func (s *Bar) SetWidth(width int) { s.width = width }
func (s *Bar) Width() int         { return s.width }

// Clear returns to the ready state without a message. Mode and user stay.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
}
