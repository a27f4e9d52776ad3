// Package keymap holds the TUI keybindings and the help groups built from them.
package keymap

import "github.com/charmbracelet/bubbles/key"

// KeyMap is shared by every view. Chat bindings avoid plain letters so the
// input box still receives them.
type KeyMap struct {
	Quit key.Binding
	Back key.Binding

	Send         key.Binding
	ToggleMode   key.Binding
	ClearHistory key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Reload key.Binding
}

func bind(help string, keys ...string) key.Binding {
	label := keys[0]
	switch label {
	case "up":
		label = "↑/k"
	case "down":
		label = "↓/j"
	case "pgdown":
		label = "pgdn"
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help))
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: bind("quit", "ctrl+c"),
		Back: bind("back", "esc"),

		Send:         bind("send", "enter"),
		ToggleMode:   bind("mode", "ctrl+r"),
		ClearHistory: bind("clear", "ctrl+l"),
		ScrollUp:     bind("scroll up", "pgup", "ctrl+u"),
		ScrollDown:   bind("scroll down", "pgdown", "ctrl+d"),

		Up:     bind("up", "up", "k"),
		Down:   bind("down", "down", "j"),
		Select: bind("open", "enter"),
		Delete: bind("delete", "d"),
		Reload: bind("reload", "r"),
	}
}

// ChatHelp is the status bar hint in the chat view.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Send, k.ToggleMode, k.ClearHistory, k.Back}
}

// DocumentsHelp is the hint line under the document list.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Reload, k.Back}
}

// ShortHelp satisfies help.KeyMap.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// FullHelp groups bindings into chat, documents and global columns.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Send, k.ToggleMode, k.ClearHistory, k.ScrollUp, k.ScrollDown},
		{k.Up, k.Down, k.Select, k.Delete, k.Reload},
		{k.Back, k.Quit},
	}
}
