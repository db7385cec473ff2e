package grid

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"clubgrid/internal/eventbus"
	"clubgrid/internal/logging"
)

const (
	// DefaultDoubleClick is the longest gap between two clicks on the same
	// row that still counts as a double click.
	DefaultDoubleClick = 400 * time.Millisecond

	maxCellWidth = 32
	minCellWidth = 3
	cursorWidth  = 2
	separator    = " │ "
)

var gridIDs atomic.Uint64

// Option configures a Model
type Option func(*Model)

// WithBus subscribes the grid to bus. Notifications reach Update through d.
func WithBus(bus eventbus.EventBus, d Dispatcher) Option {
	return func(m *Model) {
		m.bus = bus
		m.dispatcher = d
	}
}

// WithStyles replaces the default styles
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// WithKeyMap replaces the default key bindings
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithDoubleClick sets the double click window
func WithDoubleClick(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.doubleClick = d
		}
	}
}

// WithPageSize sets the PageUp/PageDown step; zero follows the viewport
func WithPageSize(rows int) Option {
	return func(m *Model) { m.ctrl.SetPageSize(rows) }
}

// WithClock replaces time.Now for click timing
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// Model is the bubbletea component around a Controller. It renders the
// title, toolbar, filter bar and body regions and turns keys, mouse events
// and bus notifications into controller calls.
type Model struct {
	id        uint64
	title     string
	ctrl      *Controller
	toolbar   []Control
	filterBar []Control
	search    textinput.Model
	keys      KeyMap
	styles    Styles

	bus        eventbus.EventBus
	dispatcher Dispatcher
	sub        eventbus.Subscription
	subscribed bool

	width  int
	height int

	doubleClick  time.Duration
	now          func() time.Time
	lastClickAt  time.Time
	lastClickRow int

	logger zerolog.Logger
}

// New builds a grid from cfg. It fails when cfg does not validate.
func New(cfg Config, opts ...Option) (*Model, error) {
	ctrl, err := NewController(cfg)
	if err != nil {
		return nil, fmt.Errorf("grid %q: %w", cfg.Title, err)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search"
	search.CharLimit = 128

	m := &Model{
		id:           gridIDs.Add(1),
		title:        cfg.Title,
		ctrl:         ctrl,
		search:       search,
		keys:         DefaultKeyMap(),
		styles:       NewStyles(DefaultTheme()),
		doubleClick:  DefaultDoubleClick,
		now:          time.Now,
		lastClickRow: -1,
		logger:       logging.Component("grid").With().Str("title", cfg.Title).Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.toolbar = buildControls(ctrl, cfg.Toolbar)
	m.filterBar = buildControls(ctrl, cfg.FilterBar)

	if m.bus != nil && cfg.EntityType != "" {
		m.subscribe()
	}
	return m, nil
}

func (m *Model) subscribe() {
	id, et, d := m.id, m.ctrl.EntityType(), m.dispatcher
	m.sub = m.bus.Subscribe(et, func(entity any, op eventbus.Operation) {
		if d == nil {
			return
		}
		d.Send(DataChangedMsg{GridID: id, EntityType: et, Entity: entity, Op: op})
	})
	m.subscribed = true
	m.logger.Debug().Uint64("subscription", m.sub.ID).Msg("subscribed")
}

// Close releases the bus subscription. The grid must not be used after.
func (m *Model) Close() {
	if !m.subscribed {
		return
	}
	m.bus.Unsubscribe(m.sub)
	m.subscribed = false
	m.logger.Debug().Uint64("subscription", m.sub.ID).Msg("unsubscribed")
}

// ID identifies the grid in DataChangedMsg
func (m *Model) ID() uint64 { return m.id }

// Title returns the grid title
func (m *Model) Title() string { return m.title }

// Controller exposes the grid state
func (m *Model) Controller() *Controller { return m.ctrl }

// Capturing reports whether the search field has focus, in which case the
// host should route all keys here.
func (m *Model) Capturing() bool { return m.search.Focused() }

// Toolbar returns the toolbar controls in build order
func (m *Model) Toolbar() []Control { return m.toolbar }

// FilterBar returns the filter bar controls in build order
func (m *Model) FilterBar() []Control { return m.filterBar }

// HelpBindings lists the grid keys followed by the control keys
func (m *Model) HelpBindings() []key.Binding {
	out := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.PageUp, m.keys.PageDown, m.keys.Top, m.keys.Bottom,
		m.keys.Select, m.keys.ExtendUp, m.keys.ExtendDown, m.keys.Open, m.keys.Menu,
		m.keys.Search, m.keys.Blur, m.keys.ClearFilter, m.keys.ToggleBar,
	}
	for _, c := range m.toolbar {
		out = append(out, c.Binding)
	}
	for _, c := range m.filterBar {
		out = append(out, c.Binding)
	}
	return out
}

// SetSize sets the area the grid may draw in
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = width / 3
	m.layout()
}

// layout recomputes how many body rows fit under the other regions
func (m *Model) layout() {
	if m.height <= 0 {
		return
	}
	chrome := lipgloss.Height(m.TitleView()) + lipgloss.Height(m.ToolbarView()) + 2 // header + status
	if m.ctrl.FilterBarVisible() {
		chrome += lipgloss.Height(m.FilterBarView())
	}
	m.ctrl.SetViewportHeight(m.height - chrome)
}

// Init returns no initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles a message and returns a follow-up command
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case DataChangedMsg:
		if msg.GridID != m.id {
			return nil
		}
		m.ctrl.Refresh(msg.Op)
		return nil

	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.layout()
		return cmd

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.search.Focused() {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.search.Blur()
			return nil
		case tea.KeyUp:
			m.ctrl.MoveCursor(-1)
			return nil
		case tea.KeyDown:
			m.ctrl.MoveCursor(1)
			return nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if v := m.search.Value(); v != m.ctrl.Term() {
			m.ctrl.SetTerm(v)
		}
		return cmd
	}

	if cmd, ok := m.runControl(msg); ok {
		return cmd
	}

	c := m.ctrl
	switch {
	case key.Matches(msg, m.keys.Up):
		c.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		c.MoveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		c.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		c.PageDown()
	case key.Matches(msg, m.keys.Top):
		c.ScrollToTop()
	case key.Matches(msg, m.keys.Bottom):
		c.ScrollToBottom()
	case key.Matches(msg, m.keys.ExtendUp):
		c.SelectRange(c.Cursor() - 1)
	case key.Matches(msg, m.keys.ExtendDown):
		c.SelectRange(c.Cursor() + 1)
	case key.Matches(msg, m.keys.Select):
		if c.SelectMode() {
			return c.Toggle(c.Cursor())
		}
		c.ToggleSelect(c.Cursor())
	case key.Matches(msg, m.keys.Open):
		return c.DoubleClick(c.Cursor())
	case key.Matches(msg, m.keys.Menu):
		return c.RightClick(c.Cursor())
	case key.Matches(msg, m.keys.Search):
		return m.search.Focus()
	case key.Matches(msg, m.keys.Blur):
		c.ClearSelection()
	case key.Matches(msg, m.keys.ToggleBar):
		c.ToggleFilterBar()
	case key.Matches(msg, m.keys.ClearFilter):
		c.SetTerm("")
		m.search.SetValue("")
	}
	return nil
}

// runControl runs the first toolbar or visible filter bar control bound to msg
func (m *Model) runControl(msg tea.KeyMsg) (tea.Cmd, bool) {
	controls := m.toolbar
	if m.ctrl.FilterBarVisible() {
		controls = append(append([]Control(nil), m.toolbar...), m.filterBar...)
	}
	for _, ctl := range controls {
		if !key.Matches(msg, ctl.Binding) {
			continue
		}
		cmd := ctl.Run(m.ctrl)
		if m.search.Value() != m.ctrl.Term() {
			m.search.SetValue(m.ctrl.Term())
		}
		return cmd, true
	}
	return nil, false
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.ctrl.MoveCursor(-1)
		return nil
	case tea.MouseButtonWheelDown:
		m.ctrl.MoveCursor(1)
		return nil
	}

	visual, col, ok := m.hit(msg.X, msg.Y)
	if !ok {
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		if m.ctrl.Editable(col) {
			m.lastClickRow = -1
			m.ctrl.MoveCursorTo(visual)
			return m.ctrl.Toggle(visual)
		}

		now := m.now()
		if visual == m.lastClickRow && now.Sub(m.lastClickAt) <= m.doubleClick {
			m.lastClickRow = -1
			return m.ctrl.DoubleClick(visual)
		}
		m.lastClickAt, m.lastClickRow = now, visual

		switch {
		case msg.Ctrl:
			m.ctrl.ToggleSelect(visual)
		case msg.Shift:
			m.ctrl.SelectRange(visual)
		default:
			m.ctrl.Select(visual)
		}
	case tea.MouseButtonRight:
		return m.ctrl.RightClick(visual)
	}
	return nil
}

// bodyTop is the first line of the body rows, relative to the grid
func (m *Model) bodyTop() int {
	top := lipgloss.Height(m.TitleView()) + lipgloss.Height(m.ToolbarView()) + 1 // header
	if m.ctrl.FilterBarVisible() {
		top += lipgloss.Height(m.FilterBarView())
	}
	return top
}

// hit maps a grid-relative position to an on-screen row and column
func (m *Model) hit(x, y int) (visual, col int, ok bool) {
	row := y - m.bodyTop()
	if row < 0 || row >= m.ctrl.ViewportHeight() {
		return 0, 0, false
	}
	visual = m.ctrl.ScrollOffset() + row
	if visual >= m.ctrl.VisibleCount() {
		return 0, 0, false
	}

	col = -1
	pos := cursorWidth
	for i, w := range m.columnWidths() {
		if x >= pos && x < pos+w {
			col = i
			break
		}
		pos += w + runewidth.StringWidth(separator)
	}
	return visual, col, true
}

// columnWidths sizes each column to its widest cell, then shrinks the widest
// columns until the row fits the grid width.
func (m *Model) columnWidths() []int {
	cols := m.ctrl.columns
	widths := make([]int, len(cols))
	for i, name := range cols {
		widths[i] = runewidth.StringWidth(name)
		if m.ctrl.Editable(i) && widths[i] < minCellWidth {
			widths[i] = minCellWidth
		}
	}
	for _, row := range m.ctrl.rows {
		for i, v := range row {
			if m.ctrl.Editable(i) {
				continue
			}
			if w := runewidth.StringWidth(v); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > maxCellWidth {
			widths[i] = maxCellWidth
		}
	}

	if m.width <= 0 {
		return widths
	}
	sepW := runewidth.StringWidth(separator)
	total := func() int {
		t := cursorWidth + sepW*(len(widths)-1)
		for _, w := range widths {
			t += w
		}
		return t
	}
	for total() > m.width {
		widest := 0
		for i, w := range widths {
			if w > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minCellWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func fit(s string, w int) string {
	return runewidth.FillRight(runewidth.Truncate(s, w, "…"), w)
}

// TitleView renders the title region
func (m *Model) TitleView() string {
	count := fmt.Sprintf(" %d/%d", m.ctrl.VisibleCount(), m.ctrl.RowCount())
	return m.styles.Title.Render(m.title) + m.styles.Dim.Render(count)
}

// ToolbarView renders the search field and toolbar controls
func (m *Model) ToolbarView() string {
	parts := []string{m.styles.Search.Render(m.search.View())}
	if m.ctrl.Literal() {
		parts = append(parts, m.styles.Literal.Render("[literal]"))
	}
	if controls := m.renderControls(m.toolbar); controls != "" {
		parts = append(parts, controls)
	}
	return m.styles.Toolbar.Render(strings.Join(parts, "  "))
}

// FilterBarView renders the collapsible filter bar, or "" when collapsed
func (m *Model) FilterBarView() string {
	if !m.ctrl.FilterBarVisible() {
		return ""
	}
	content := m.renderControls(m.filterBar)
	if content == "" {
		content = m.styles.Dim.Render("no quick filters")
	}
	return m.styles.FilterBar.Render(content)
}

func (m *Model) renderControls(controls []Control) string {
	parts := make([]string, 0, len(controls))
	for _, ctl := range controls {
		h := ctl.Binding.Help()
		if !ctl.Enabled(m.ctrl) {
			parts = append(parts, m.styles.ControlDisabled.Render(h.Key+" "+h.Desc))
			continue
		}
		parts = append(parts, m.styles.ControlKey.Render(h.Key)+" "+m.styles.ControlDesc.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}

// BodyView renders the header, the rows in the viewport and a status line
func (m *Model) BodyView() string {
	widths := m.columnWidths()
	var b strings.Builder

	header := make([]string, len(widths))
	for i, name := range m.ctrl.columns {
		header[i] = fit(name, widths[i])
	}
	b.WriteString(strings.Repeat(" ", cursorWidth))
	b.WriteString(m.styles.Header.Render(strings.Join(header, separator)))

	start := m.ctrl.ScrollOffset()
	end := start + m.ctrl.ViewportHeight()
	if end > m.ctrl.VisibleCount() {
		end = m.ctrl.VisibleCount()
	}
	for v := start; v < end; v++ {
		data, ok := m.ctrl.DataIndex(v)
		if !ok {
			continue
		}
		b.WriteString("\n")
		b.WriteString(m.renderRow(v, data, widths))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Scroll.Render(m.status(start, end)))
	return b.String()
}

func (m *Model) status(start, end int) string {
	n := m.ctrl.VisibleCount()
	if n == 0 {
		if m.ctrl.State() == Filtered {
			return "no matching rows"
		}
		return "no rows"
	}
	s := fmt.Sprintf("rows %d-%d of %d", start+1, end, n)
	if sel := m.ctrl.SelectionCount(); sel > 0 {
		s += fmt.Sprintf(" · %d selected", sel)
	}
	return s
}

func (m *Model) renderRow(visual, data int, widths []int) string {
	base := m.styles.Cell
	if visual%2 == 1 {
		base = m.styles.Stripe
	}
	if m.ctrl.IsSelected(data) {
		base = m.styles.Selected
	}

	marker := base.Render(strings.Repeat(" ", cursorWidth))
	if visual == m.ctrl.Cursor() {
		marker = m.styles.Cursor.Inherit(base).Render("› ")
	}

	sep := m.styles.Separator.Inherit(base).Render(separator)
	cells := make([]string, len(widths))
	for col, w := range widths {
		switch cell := m.ctrl.Cell(data, col).(type) {
		case CheckboxCell:
			box := "[ ]"
			if cell.Checked {
				box = "[x]"
			}
			cells[col] = base.Render(fit(box, w))
		case DisplayCell:
			text := fit(cell.Text, w)
			if m.ctrl.IsFilterColumn(col) && m.ctrl.State() == Filtered {
				cells[col] = RenderHighlighted(text, m.ctrl.Term(), base, m.styles.Highlight)
			} else {
				cells[col] = base.Render(text)
			}
		}
	}
	return marker + strings.Join(cells, sep)
}

// View stacks the regions
func (m *Model) View() string {
	regions := []string{m.TitleView(), m.ToolbarView()}
	if bar := m.FilterBarView(); bar != "" {
		regions = append(regions, bar)
	}
	regions = append(regions, m.BodyView())
	return lipgloss.JoinVertical(lipgloss.Left, regions...)
}
