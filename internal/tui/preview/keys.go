package preview

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the preview TUI.
type KeyMap struct {
	ToggleEmpty     key.Binding
	ToggleConflict  key.Binding
	ToggleDivergent key.Binding
	ToggleHidden    key.Binding
	ToggleImmutable key.Binding
	Quit            key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleEmpty: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "toggle empty"),
		),
		ToggleConflict: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle conflict"),
		),
		ToggleDivergent: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "toggle divergent"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "toggle hidden"),
		),
		ToggleImmutable: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle immutable"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
