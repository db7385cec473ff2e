package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the shell bindings. They are ignored while a grid's search
// field has focus.
type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Jump key.Binding
	Help key.Binding
	Quit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		Prev: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous screen")),
		Jump: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "go to screen")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Jump, k.Help, k.Quit}
}
