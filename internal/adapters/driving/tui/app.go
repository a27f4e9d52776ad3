package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/doccontent"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

var _ tea.Model = (*App)(nil)

// App owns the four views and routes messages between them. Every service
// call is made as the session user captured when the app was built.
type App struct {
	ports   *Ports
	ctx     context.Context
	session domain.Session

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView       *menu.View
	chatView       *chat.View
	documentsView  *documents.View
	docContentView *doccontent.View

	current  messages.ViewType
	previous messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// NewApp fails with domain.ErrAuthRequired when nobody is logged in.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	session, err := ports.Auth.Current()
	if err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:          ports,
		ctx:            context.Background(),
		session:        session,
		styles:         s,
		keymap:         km,
		help:           help.New(),
		menuView:       menu.NewView(s),
		chatView:       chat.NewView(s, km, ports.Chat, ports.Settings),
		documentsView:  documents.NewView(s, ports.Document),
		docContentView: doccontent.NewView(s, ports.Document),
		current:        messages.ViewMenu,
		previous:       messages.ViewMenu,
	}
	a.menuView.SetUser(session.Email)
	a.chatView.SetUser(session.UserID, session.Email)
	a.documentsView.SetUser(session.UserID)
	return a, nil
}

// WithContext sets the context passed to every service call.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.docContentView.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, tea.SetWindowTitle("docchat"))
}

// owner names the view an asynchronous result belongs to. Results are
// delivered to their owner even when another view is showing, so a reply
// that arrives after the user left the chat is not lost.
func owner(msg tea.Msg) (messages.ViewType, bool) {
	switch msg.(type) {
	case messages.HistoryLoaded, messages.ReplyReceived, messages.HistoryCleared, messages.ModeChanged:
		return messages.ViewChat, true
	case messages.DocumentsLoaded, messages.DocumentDeleted:
		return messages.ViewDocuments, true
	case messages.DocumentContentLoaded:
		return messages.ViewDocContent, true
	}
	return 0, false
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if view, ok := owner(msg); ok {
		return a, a.deliver(view, msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keymap.Quit) {
			return a, tea.Quit
		}

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.DocumentSelected:
		a.previous, a.current = a.current, messages.ViewDocContent
		return a, a.docContentView.SetDocument(a.session.UserID, msg.Document)

	case messages.ErrorOccurred:
		a.err = msg.Err

	case messages.Quit:
		return a, tea.Quit
	}

	if a.current == messages.ViewHelp {
		if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, a.keymap.Back) {
			a.current = a.previous
		}
		return a, nil
	}
	return a, a.deliver(a.current, msg)
}

// switchTo makes view current and returns its start-up command.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	if view != a.current {
		a.previous = a.current
	}
	a.current = view

	switch view {
	case messages.ViewChat:
		return a.chatView.Init()
	case messages.ViewDocuments:
		return a.documentsView.Init()
	default:
		return nil
	}
}

func (a *App) deliver(view messages.ViewType, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch view {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocContent:
		a.docContentView, cmd = a.docContentView.Update(msg)
	}
	return cmd
}

func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.current {
	case messages.ViewChat:
		return a.chatView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocContent:
		return a.docContentView.View()
	case messages.ViewHelp:
		return a.helpView()
	default:
		return a.menuView.View()
	}
}

func (a *App) helpView() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help") + "\n\n")
	b.WriteString(a.styles.Subtitle.Render("Modes") + "\n")
	for _, mode := range []domain.ChatMode{domain.ChatModePlain, domain.ChatModeRAG} {
		fmt.Fprintf(&b, "  %-5s %s\n", mode, mode.Description())
	}
	b.WriteString("\n" + a.styles.Subtitle.Render("Keys") + "\n")
	b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()) + "\n\n")
	b.WriteString(a.styles.Help.Render("esc back"))
	return b.String()
}

// Run blocks until the user quits or the context is cancelled.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

func (a *App) CurrentView() messages.ViewType { return a.current }

// Session is the user the app was built for.
func (a *App) Session() domain.Session { return a.session }

// Err is the last error reported through messages.ErrorOccurred.
func (a *App) Err() error { return a.err }

func (a *App) Ready() bool { return a.ready }

// SetDimensions resizes every view, not just the visible one, so switching
// views never shows a stale layout.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height = width, height
	a.ready = true
	a.help.Width = width
	a.menuView.SetDimensions(width, height)
	a.chatView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.docContentView.SetDimensions(width, height)
}
