package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type menuItem struct {
	label  string
	action tea.Cmd
}

// contextMenu is the small popup opened by a right click on a selected row
type contextMenu struct {
	title  string
	items  []menuItem
	cursor int
}

func newContextMenu(title string, items ...menuItem) *contextMenu {
	return &contextMenu{title: title, items: items}
}

// move steps the highlighted item, wrapping at both ends
func (m *contextMenu) move(delta int) {
	n := len(m.items)
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
}

// choose returns the action of item i, or nil when i is out of range
func (m *contextMenu) choose(i int) tea.Cmd {
	if i < 0 || i >= len(m.items) {
		return nil
	}
	return m.items[i].action
}

// itemAt maps a popup-relative row to an item index. Row 0 is the top
// border and row 1 the title.
func (m *contextMenu) itemAt(row int) (int, bool) {
	i := row - 2
	if i < 0 || i >= len(m.items) {
		return 0, false
	}
	return i, true
}

func (m *contextMenu) view(s Styles) string {
	var b strings.Builder
	b.WriteString(s.PopupTitle.Render(m.title))
	for i, item := range m.items {
		b.WriteString("\n")
		if i == m.cursor {
			b.WriteString(s.MenuSelected.Render("› " + item.label))
			continue
		}
		b.WriteString(s.MenuItem.Render("  " + item.label))
	}
	return s.Popup.Render(b.String())
}
