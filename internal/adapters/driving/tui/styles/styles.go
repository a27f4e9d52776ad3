package styles

import "github.com/charmbracelet/lipgloss"

// Styles are built once per model from a Palette.
type Styles struct {
	palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Help     lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Border     lipgloss.Style

	// UserLabel and BotLabel prefix transcript entries.
	UserLabel lipgloss.Style
	BotLabel  lipgloss.Style

	// Mode is the chat/rag badge in the status bar.
	Mode lipgloss.Style
}

// New derives every style from p.
func New(p Palette) *Styles {
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	framed := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Frame)

	return &Styles{
		palette: p,

		Title:    fg(p.Accent).Bold(true),
		Subtitle: fg(p.You).Bold(true),
		Normal:   fg(p.Text),
		Muted:    fg(p.Faint),
		Selected: fg(p.Surface).Background(p.Accent).Bold(true),
		Help:     fg(p.Faint).Italic(true),

		Error:   fg(p.Bad),
		Success: fg(p.Good),
		Warning: fg(p.Caution),

		InputField: framed.Padding(0, 1),
		StatusBar:  fg(p.Faint).Background(p.Surface).Padding(0, 1),
		Border:     framed,

		UserLabel: fg(p.You).Bold(true),
		BotLabel:  fg(p.Assistant).Bold(true),

		Mode: fg(p.Surface).Background(p.You).Bold(true).Padding(0, 1),
	}
}

// DefaultStyles uses DefaultPalette.
func DefaultStyles() *Styles {
	return New(DefaultPalette())
}

// Palette returns the colours the styles were built from.
func (s *Styles) Palette() Palette {
	return s.palette
}
