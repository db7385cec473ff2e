package grid

import (
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"clubgrid/internal/domain"
	"clubgrid/internal/logging"
)

// FilterState is Unfiltered while the search term is blank
type FilterState int

const (
	Unfiltered FilterState = iota
	Filtered
)

func (s FilterState) String() string {
	if s == Filtered {
		return "filtered"
	}
	return "unfiltered"
}

// Controller owns one grid's rows, search term, visible view, selection,
// checkbox state and viewport. It is not safe for concurrent use; every
// call must come from the UI loop.
type Controller struct {
	columns       []string
	rows          [][]string
	filterColumns []int
	selectMode    bool
	selectColumn  int
	keyColumn     int
	entityType    domain.EntityType
	fetch         Fetcher

	onRightClick  func(RowKey) tea.Cmd
	onDoubleClick func(RowKey) tea.Cmd
	onToggle      func(RowKey, bool) tea.Cmd

	term    string
	matcher *Matcher
	visible []int

	// selection and checkbox overrides are keyed by data row
	selected    map[int]bool
	anchor      int
	overrides   map[int]bool
	cursor      int
	offset      int
	viewport    int
	pageSize    int
	filterBarOn bool
	generation  uint64
	logger      zerolog.Logger
}

// NewController validates cfg and builds an unfiltered controller
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		columns:       append([]string(nil), cfg.Columns...),
		rows:          cfg.Rows,
		filterColumns: append([]int(nil), cfg.FilterColumns...),
		selectMode:    cfg.SelectMode,
		selectColumn:  cfg.SelectColumn,
		keyColumn:     cfg.KeyColumn,
		entityType:    cfg.EntityType,
		fetch:         cfg.Fetch,
		onRightClick:  cfg.OnRightClick,
		onDoubleClick: cfg.OnDoubleClick,
		onToggle:      cfg.OnToggle,
		selected:      make(map[int]bool),
		overrides:     make(map[int]bool),
		anchor:        -1,
		viewport:      20,
		logger:        logging.Component("grid").With().Str("entity", string(cfg.EntityType)).Logger(),
	}
	c.visible = identity(len(c.rows))
	return c, nil
}

// Columns returns the column names
func (c *Controller) Columns() []string {
	return append([]string(nil), c.columns...)
}

// EntityType returns the entity type the grid refreshes on
func (c *Controller) EntityType() domain.EntityType {
	return c.entityType
}

// RowCount returns the size of the row snapshot, ignoring the filter
func (c *Controller) RowCount() int {
	return len(c.rows)
}

// Row returns data row i, or nil when i is out of range
func (c *Controller) Row(i int) []string {
	if i < 0 || i >= len(c.rows) {
		return nil
	}
	return c.rows[i]
}

// Generation increases on every change that requires a redraw
func (c *Controller) Generation() uint64 {
	return c.generation
}

func (c *Controller) touch() {
	c.generation++
}

// --- search ---

// SetTerm replaces the search term and re-filters the full row set
func (c *Controller) SetTerm(term string) {
	c.term = term
	c.matcher = NewMatcher(term)
	if c.matcher.Literal() {
		c.logger.Debug().Str("term", term).Msg("invalid expression, matching literally")
	}
	c.visible = c.matcher.Filter(c.rows, c.filterColumns)
	c.pruneSelection()
	c.clampCursor()
	c.touch()
}

// Term returns the current search term
func (c *Controller) Term() string {
	return c.term
}

// Literal reports whether the term is matched as plain text
func (c *Controller) Literal() bool {
	return c.matcher.Literal()
}

// State reports whether a filter is active
func (c *Controller) State() FilterState {
	if c.matcher == nil {
		return Unfiltered
	}
	return Filtered
}

// IsFilterColumn reports whether col takes part in matching and highlighting
func (c *Controller) IsFilterColumn(col int) bool {
	for _, fc := range c.filterColumns {
		if fc == col {
			return true
		}
	}
	return false
}

// Visible returns the data row indices currently shown, in display order
func (c *Controller) Visible() []int {
	return append([]int(nil), c.visible...)
}

// VisibleCount returns how many rows are shown
func (c *Controller) VisibleCount() int {
	return len(c.visible)
}

// DataIndex translates an on-screen row to its data row. ok is false when
// visual is out of range or the data row no longer exists.
func (c *Controller) DataIndex(visual int) (int, bool) {
	if visual < 0 || visual >= len(c.visible) {
		return 0, false
	}
	i := c.visible[visual]
	if i >= len(c.rows) {
		return 0, false
	}
	return i, true
}

func (c *Controller) key(data int) RowKey {
	return RowKey{Index: data, Value: c.rows[data][c.keyColumn]}
}

// --- filter bar ---

// ToggleFilterBar shows or hides the filter bar
func (c *Controller) ToggleFilterBar() {
	c.filterBarOn = !c.filterBarOn
	c.touch()
}

// FilterBarVisible reports whether the filter bar is shown
func (c *Controller) FilterBarVisible() bool {
	return c.filterBarOn
}

// --- refresh ---

// Refresh re-fetches the rows after a data change. The active term is
// re-applied to the new rows, selection and checkbox overrides are dropped,
// and on insert the view scrolls to the top. Columns never change.
func (c *Controller) Refresh(op domain.Operation) {
	if c.fetch != nil {
		c.rows = c.sanitize(c.fetch(c.entityType))
	}

	if c.matcher != nil {
		c.visible = c.matcher.Filter(c.rows, c.filterColumns)
	} else {
		c.visible = identity(len(c.rows))
	}
	c.selected = make(map[int]bool)
	c.overrides = make(map[int]bool)
	c.anchor = -1

	if op == domain.OpInsert {
		c.ScrollToTop()
	} else {
		c.clampCursor()
	}
	c.touch()

	c.logger.Debug().Stringer("op", op).Int("rows", len(c.rows)).Msg("refreshed")
}

// sanitize drops fetched rows whose width does not match the columns
func (c *Controller) sanitize(rows [][]string) [][]string {
	kept := rows[:0:0]
	for i, row := range rows {
		if len(row) != len(c.columns) {
			c.logger.Warn().Int("row", i).Int("cells", len(row)).Msg("dropping malformed row")
			continue
		}
		kept = append(kept, row)
	}
	return kept
}

// --- selection ---

// Select makes visual the only selected row and moves the cursor there
func (c *Controller) Select(visual int) {
	data, ok := c.DataIndex(visual)
	if !ok {
		return
	}
	c.selected = map[int]bool{data: true}
	c.anchor = visual
	c.cursor = visual
	c.ensureVisible()
	c.touch()
}

// ToggleSelect adds visual to or removes it from the selection
func (c *Controller) ToggleSelect(visual int) {
	data, ok := c.DataIndex(visual)
	if !ok {
		return
	}
	if c.selected[data] {
		delete(c.selected, data)
	} else {
		c.selected[data] = true
	}
	c.anchor = visual
	c.cursor = visual
	c.ensureVisible()
	c.touch()
}

// SelectRange selects every row between the last selected row and visual
func (c *Controller) SelectRange(visual int) {
	if _, ok := c.DataIndex(visual); !ok {
		return
	}
	if c.anchor < 0 || c.anchor >= len(c.visible) {
		c.Select(visual)
		return
	}

	start, end := c.anchor, visual
	if start > end {
		start, end = end, start
	}
	for v := start; v <= end; v++ {
		if data, ok := c.DataIndex(v); ok {
			c.selected[data] = true
		}
	}
	c.cursor = visual
	c.ensureVisible()
	c.touch()
}

// ClearSelection deselects every row
func (c *Controller) ClearSelection() {
	if len(c.selected) == 0 {
		return
	}
	c.selected = make(map[int]bool)
	c.anchor = -1
	c.touch()
}

// IsSelected reports whether data row i is selected
func (c *Controller) IsSelected(data int) bool {
	return c.selected[data]
}

// SelectionCount returns the number of selected rows
func (c *Controller) SelectionCount() int {
	return len(c.selected)
}

// SelectedKeys returns the selected rows in data order
func (c *Controller) SelectedKeys() []RowKey {
	idx := make([]int, 0, len(c.selected))
	for i := range c.selected {
		if i < len(c.rows) {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)

	keys := make([]RowKey, 0, len(idx))
	for _, i := range idx {
		keys = append(keys, c.key(i))
	}
	return keys
}

// pruneSelection drops selected rows the filter has hidden
func (c *Controller) pruneSelection() {
	if len(c.selected) == 0 {
		return
	}
	shown := make(map[int]bool, len(c.visible))
	for _, i := range c.visible {
		shown[i] = true
	}
	for i := range c.selected {
		if !shown[i] {
			delete(c.selected, i)
		}
	}
	c.anchor = -1
}

// --- mouse hooks ---

// RightClick runs the context menu hook for visual. Nothing happens unless
// exactly one row is selected and it is the clicked row.
func (c *Controller) RightClick(visual int) tea.Cmd {
	data, ok := c.DataIndex(visual)
	if !ok {
		c.logger.Debug().Int("row", visual).Msg("right click on stale row dropped")
		return nil
	}
	if len(c.selected) != 1 || !c.selected[data] || c.onRightClick == nil {
		return nil
	}
	return c.onRightClick(c.key(data))
}

// DoubleClick runs the open hook for the data row shown at visual
func (c *Controller) DoubleClick(visual int) tea.Cmd {
	data, ok := c.DataIndex(visual)
	if !ok {
		c.logger.Debug().Int("row", visual).Msg("double click on stale row dropped")
		return nil
	}
	if c.onDoubleClick == nil {
		return nil
	}
	return c.onDoubleClick(c.key(data))
}

// --- select mode ---

// SelectMode reports whether the grid has a checkbox column
func (c *Controller) SelectMode() bool {
	return c.selectMode
}

// SelectColumn returns the checkbox column; meaningful only in select mode
func (c *Controller) SelectColumn() int {
	return c.selectColumn
}

// Editable reports whether col can be edited. Only the select column of a
// select-mode grid can.
func (c *Controller) Editable(col int) bool {
	return c.selectMode && col == c.selectColumn
}

// Cell returns the cell variant for data row i, column col, with any local
// checkbox toggle applied.
func (c *Controller) Cell(data, col int) Cell {
	if data < 0 || data >= len(c.rows) || col < 0 || col >= len(c.columns) {
		return DisplayCell{}
	}
	if c.Editable(col) {
		if v, ok := c.overrides[data]; ok {
			return CheckboxCell{Checked: v}
		}
	}
	return CellFor(c.selectMode, c.selectColumn, col, c.rows[data][col])
}

// Toggle flips the checkbox of the row shown at visual. The change is local
// until the host commits it; OnToggle is told about it.
func (c *Controller) Toggle(visual int) tea.Cmd {
	if !c.selectMode {
		return nil
	}
	data, ok := c.DataIndex(visual)
	if !ok {
		return nil
	}
	cb, _ := c.Cell(data, c.selectColumn).(CheckboxCell)
	checked := !cb.Checked
	c.overrides[data] = checked
	c.touch()

	if c.onToggle == nil {
		return nil
	}
	return c.onToggle(c.key(data), checked)
}

// CheckedKeys returns every checked row in data order, including rows the
// filter hides.
func (c *Controller) CheckedKeys() []RowKey {
	if !c.selectMode {
		return nil
	}
	var keys []RowKey
	for i := range c.rows {
		if cb, ok := c.Cell(i, c.selectColumn).(CheckboxCell); ok && cb.Checked {
			keys = append(keys, c.key(i))
		}
	}
	return keys
}

// --- cursor and viewport ---

// Cursor returns the on-screen row under the keyboard cursor
func (c *Controller) Cursor() int {
	return c.cursor
}

// ScrollOffset returns the first on-screen row in the viewport
func (c *Controller) ScrollOffset() int {
	return c.offset
}

// ViewportHeight returns how many rows fit in the body
func (c *Controller) ViewportHeight() int {
	return c.viewport
}

// SetViewportHeight sets how many body rows are visible at once
func (c *Controller) SetViewportHeight(rows int) {
	if rows < 1 {
		rows = 1
	}
	c.viewport = rows
	c.ensureVisible()
}

// MoveCursor moves the cursor by delta rows, clamped to the view
func (c *Controller) MoveCursor(delta int) {
	old := c.cursor
	c.cursor = c.clamp(c.cursor + delta)
	c.ensureVisible()
	if old != c.cursor {
		c.touch()
	}
}

// MoveCursorTo puts the cursor on visual
func (c *Controller) MoveCursorTo(visual int) {
	c.MoveCursor(visual - c.cursor)
}

// SetPageSize fixes how far PageUp and PageDown move. Zero pages by one
// viewport less a row of overlap.
func (c *Controller) SetPageSize(rows int) {
	if rows < 0 {
		rows = 0
	}
	c.pageSize = rows
}

func (c *Controller) page() int {
	if c.pageSize > 0 {
		return c.pageSize
	}
	if c.viewport > 1 {
		return c.viewport - 1
	}
	return 1
}

// PageUp moves the cursor and viewport one page up
func (c *Controller) PageUp() {
	page := c.page()
	c.offset -= page
	if c.offset < 0 {
		c.offset = 0
	}
	c.MoveCursor(-page)
}

// PageDown moves the cursor one page down
func (c *Controller) PageDown() {
	c.MoveCursor(c.page())
}

// ScrollToTop moves the cursor and viewport to the first row
func (c *Controller) ScrollToTop() {
	c.cursor = 0
	c.offset = 0
	c.touch()
}

// ScrollToBottom moves the cursor to the last row
func (c *Controller) ScrollToBottom() {
	c.MoveCursor(len(c.visible))
}

func (c *Controller) clamp(visual int) int {
	if visual >= len(c.visible) {
		visual = len(c.visible) - 1
	}
	if visual < 0 {
		visual = 0
	}
	return visual
}

func (c *Controller) clampCursor() {
	c.cursor = c.clamp(c.cursor)
	maxOffset := len(c.visible) - c.viewport
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.offset > maxOffset {
		c.offset = maxOffset
	}
	c.ensureVisible()
}

func (c *Controller) ensureVisible() {
	if c.cursor < c.offset {
		c.offset = c.cursor
	} else if c.cursor >= c.offset+c.viewport {
		c.offset = c.cursor - c.viewport + 1
	}
}
