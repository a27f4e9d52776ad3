// Package styles holds the colours and lipgloss styles shared by the TUI views.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette names colours by the role they play in the chat UI. Each colour
// adapts to light and dark terminals.
type Palette struct {
	Accent    lipgloss.AdaptiveColor
	You       lipgloss.AdaptiveColor
	Assistant lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Faint     lipgloss.AdaptiveColor
	Surface   lipgloss.AdaptiveColor
	Frame     lipgloss.AdaptiveColor
	Good      lipgloss.AdaptiveColor
	Caution   lipgloss.AdaptiveColor
	Bad       lipgloss.AdaptiveColor
}

// DefaultPalette is a Catppuccin-flavoured palette with Latte on light
// terminals and Mocha on dark ones.
func DefaultPalette() Palette {
	return Palette{
		Accent:    lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"},
		You:       lipgloss.AdaptiveColor{Light: "#04A5E5", Dark: "#89DCEB"},
		Assistant: lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"},
		Text:      lipgloss.AdaptiveColor{Light: "#4C4F69", Dark: "#CDD6F4"},
		Faint:     lipgloss.AdaptiveColor{Light: "#8C8FA1", Dark: "#6C7086"},
		Surface:   lipgloss.AdaptiveColor{Light: "#E6E9EF", Dark: "#181825"},
		Frame:     lipgloss.AdaptiveColor{Light: "#BCC0CC", Dark: "#45475A"},
		Good:      lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"},
		Caution:   lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"},
		Bad:       lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"},
	}
}
