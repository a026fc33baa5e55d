package confirm

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the confirm prompt.
type KeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc", "q", "ctrl+c", "enter"),
			key.WithHelp("n", "cancel"),
		),
	}
}
