// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// View is the chat view: a transcript, an input line and a status bar.
type View struct {
	styles     *styles.Styles
	keymap     *keymap.KeyMap
	input      *input.ChatInput
	transcript *transcript.Transcript
	statusbar  *status.Bar

	chatService     driving.ChatService
	settingsService driving.SettingsService
	ctx             context.Context

	userID  string
	mode    domain.ChatMode
	pending bool
	width   int
	height  int
	ready   bool
	err     error
}

// NewView creates a new chat view. settingsService may be nil, in which
// case mode changes are not persisted.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	chatService driving.ChatService,
	settingsService driving.SettingsService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	mode := domain.ChatModePlain
	if settingsService != nil {
		mode = settingsService.Mode()
	}

	v := &View{
		styles:          s,
		keymap:          km,
		input:           input.NewChatInput(s),
		transcript:      transcript.New(s),
		statusbar:       status.NewBar(s, km),
		chatService:     chatService,
		settingsService: settingsService,
		ctx:             context.Background(),
		mode:            mode,
		width:           80,
		height:          24,
	}
	v.statusbar.SetMode(mode)
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// SetUser scopes the view to a user.
func (v *View) SetUser(userID, email string) {
	v.userID = userID
	v.statusbar.SetUser(email)
}

// Init focuses the input and loads the user's history.
func (v *View) Init() tea.Cmd {
	return tea.Batch(v.input.Init(), v.loadHistory())
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HistoryLoaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.transcript.SetMessages(msg.Messages)
		return v, nil

	case messages.ReplyReceived:
		v.pending = false
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.clearError()
		v.transcript.Append(domain.Message{
			UserID:    v.userID,
			Text:      msg.Reply,
			Sender:    domain.SenderBot,
			CreatedAt: time.Now(),
		})
		return v, nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.transcript.SetMessages(nil)
		v.statusbar.SetMessage("History cleared")
		return v, nil

	case messages.ModeChanged:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		v.mode = msg.Mode
		v.statusbar.SetMode(msg.Mode)
		v.statusbar.SetMessage(msg.Mode.Description())
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case key.Matches(msg, v.keymap.Send):
		return v, v.send()

	case key.Matches(msg, v.keymap.ToggleMode):
		return v, v.toggleMode()

	case key.Matches(msg, v.keymap.ClearHistory):
		if v.pending {
			return v, nil
		}
		return v, v.clearHistory()

	case key.Matches(msg, v.keymap.ScrollUp):
		v.transcript.ScrollUp()
		return v, nil

	case key.Matches(msg, v.keymap.ScrollDown):
		v.transcript.ScrollDown()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send records the typed message locally and asks the service for a reply.
// Only one message is in flight at a time.
func (v *View) send() tea.Cmd {
	text := v.input.Message()
	if text == "" || v.pending {
		return nil
	}

	v.pending = true
	v.input.Reset()
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	v.transcript.Append(domain.Message{
		UserID:    v.userID,
		Text:      text,
		Sender:    domain.SenderUser,
		CreatedAt: time.Now(),
	})

	ctx, userID, mode := v.ctx, v.userID, v.mode
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.ReplyReceived{Message: text, Err: ErrNoChatService}
		}
		reply, err := v.chatService.Send(ctx, userID, mode, text)
		return messages.ReplyReceived{Message: text, Reply: reply, Err: err}
	}
}

// toggleMode switches between plain chat and document Q&A.
func (v *View) toggleMode() tea.Cmd {
	next := domain.ChatModeRAG
	if v.mode == domain.ChatModeRAG {
		next = domain.ChatModePlain
	}

	settings := v.settingsService
	return func() tea.Msg {
		if settings == nil {
			return messages.ModeChanged{Mode: next}
		}
		return messages.ModeChanged{Mode: next, Err: settings.SetMode(next)}
	}
}

func (v *View) loadHistory() tea.Cmd {
	ctx, userID := v.ctx, v.userID
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.HistoryLoaded{Err: ErrNoChatService}
		}
		history, err := v.chatService.History(ctx, userID)
		return messages.HistoryLoaded{Messages: history, Err: err}
	}
}

func (v *View) clearHistory() tea.Cmd {
	ctx, userID := v.ctx, v.userID
	return func() tea.Msg {
		if v.chatService == nil {
			return messages.HistoryCleared{Err: ErrNoChatService}
		}
		return messages.HistoryCleared{Err: v.chatService.ClearHistory(ctx, userID)}
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) clearError() {
	v.err = nil
	v.statusbar.Clear()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render("docchat")+" "+v.styles.Muted.Render(v.mode.Description()),
		"",
		v.transcript.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Reserve space for title, input box and status bar
	v.input.SetWidth(width)
	v.transcript.SetDimensions(width, height-8)
	v.statusbar.SetWidth(width)
}

// Mode returns the active chat mode.
func (v *View) Mode() domain.ChatMode {
	return v.mode
}

// Pending reports whether a reply is awaited.
func (v *View) Pending() bool {
	return v.pending
}

// Messages returns the conversation as displayed.
func (v *View) Messages() []domain.Message {
	return v.transcript.Messages()
}

// Input returns the current draft.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput replaces the current draft.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}
