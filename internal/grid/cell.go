package grid

// Cell is what one grid position renders as: DisplayCell or CheckboxCell
type Cell interface {
	cell()
}

// DisplayCell is read-only text
type DisplayCell struct {
	Text string
}

// CheckboxCell is the editable select-mode cell
type CheckboxCell struct {
	Checked bool
}

func (DisplayCell) cell()  {}
func (CheckboxCell) cell() {}

// Checked reports whether a select-column value means "checked". Only the
// exact string "true" does.
func Checked(value string) bool {
	return value == "true"
}

// CellFor picks the cell variant for value at column col. Only the select
// column of a select-mode grid becomes a checkbox.
func CellFor(selectMode bool, selectColumn, col int, value string) Cell {
	if selectMode && col == selectColumn {
		return CheckboxCell{Checked: Checked(value)}
	}
	return DisplayCell{Text: value}
}
