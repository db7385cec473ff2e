package grid

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the grid's own key bindings
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Select      key.Binding
	ExtendUp    key.Binding
	ExtendDown  key.Binding
	Open        key.Binding
	Menu        key.Binding
	Search      key.Binding
	Blur        key.Binding
	ToggleBar   key.Binding
	ClearFilter key.Binding
}

// DefaultKeyMap returns the standard bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		ExtendUp:    key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend up")),
		ExtendDown:  key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend down")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Menu:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "menu")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Blur:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		ToggleBar:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "filter bar")),
		ClearFilter: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear search")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Select, k.Open, k.Menu, k.ToggleBar}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Select, k.ExtendUp, k.ExtendDown, k.Open, k.Menu},
		{k.Search, k.Blur, k.ClearFilter, k.ToggleBar},
	}
}
