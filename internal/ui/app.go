// Package ui is the clubgrid shell: one grid screen per entity type, a
// dashboard header, the role dialog, the context menu and the pager.
package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"clubgrid/internal/club"
	"clubgrid/internal/config"
	"clubgrid/internal/domain"
	"clubgrid/internal/eventbus"
	"clubgrid/internal/grid"
	"clubgrid/internal/logging"
)

const (
	// E2EEnv makes the App print ReadyMarker once it has a size, for the
	// PTY test driver.
	E2EEnv      = "CLUBGRID_E2E_TEST"
	ReadyMarker = "__READY__"

	headerHeight = 2 // dashboard + tabs
	footerHeight = 2 // status + short help
	statusTTL    = 3 * time.Second
)

// App is the root bubbletea model
type App struct {
	cfg      *config.Config
	svc      *club.Service
	bus      eventbus.EventBus
	relay    *grid.Relay
	theme    grid.Theme
	styles   Styles
	gridKeys grid.KeyMap
	keys     keyMap
	help     help.Model
	helpText *HelpRenderer

	screens   []*grid.Model
	active    int
	dashboard *Dashboard

	menu       *contextMenu
	form       *roleForm
	info       string
	showHelp   bool
	helpOffset int

	status    string
	statusErr bool
	statusSeq int

	width  int
	height int
	e2e    bool
	now    func() time.Time
	logger zerolog.Logger
}

// NewApp builds the shell over svc. bus may be nil, in which case screens
// never refresh on their own.
func NewApp(cfg *config.Config, svc *club.Service, bus eventbus.EventBus) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if svc == nil {
		return nil, errors.New("ui: nil service")
	}

	theme := themeFromConfig(cfg.UI)
	a := &App{
		cfg:      cfg,
		svc:      svc,
		bus:      bus,
		relay:    grid.NewRelay(),
		theme:    theme,
		styles:   NewStyles(theme),
		gridKeys: grid.DefaultKeyMap(),
		keys:     defaultKeyMap(),
		help:     help.New(),
		helpText: NewHelpRenderer(),
		e2e:      os.Getenv(E2EEnv) == "1",
		now:      time.Now,
		logger:   logging.Component("ui"),
	}
	if err := a.buildScreens(); err != nil {
		return nil, err
	}
	a.dashboard = NewDashboard(svc, bus, a.relay)
	return a, nil
}

// AttachProgram routes bus notifications into d, normally the running
// *tea.Program.
func (a *App) AttachProgram(d grid.Dispatcher) {
	a.relay.Attach(d)
}

// WatchBus reports subscribers that panic or events the bus drops on the
// status line. Drops fire inside Publish, which may run on the UI loop, so
// that report is sent from its own goroutine.
func (a *App) WatchBus(b *eventbus.Bus) {
	b.OnPanic(func(e eventbus.DataChangedEvent, r any) {
		a.relay.Send(statusMsg{text: fmt.Sprintf("%s refresh failed: %v", e.EntityType, r), err: true})
	})
	b.OnDrop(func(e eventbus.DataChangedEvent) {
		msg := statusMsg{text: fmt.Sprintf("%s change was not delivered", e.EntityType), err: true}
		go a.relay.Send(msg)
	})
}

// Close releases every bus subscription held by the shell
func (a *App) Close() {
	for _, s := range a.screens {
		s.Close()
	}
	if a.dashboard != nil {
		a.dashboard.Close()
	}
}

// Screens returns the grids in tab order
func (a *App) Screens() []*grid.Model { return a.screens }

func (a *App) activeScreen() *grid.Model {
	return a.screens[a.active]
}

// Init sets the window title
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("clubgrid")
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		for _, s := range a.screens {
			s.SetSize(msg.Width, max(msg.Height-headerHeight-footerHeight, 1))
		}
		return a, nil

	case grid.DataChangedMsg:
		cmds := make([]tea.Cmd, 0, len(a.screens))
		for _, s := range a.screens {
			cmds = append(cmds, s.Update(msg))
		}
		return a, tea.Batch(cmds...)

	case countsChangedMsg:
		a.dashboard.Refresh()
		return a, nil

	case statusMsg:
		a.status, a.statusErr = msg.text, msg.err
		a.statusSeq++
		seq := a.statusSeq
		return a, tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })

	case clearStatusMsg:
		if msg.seq == a.statusSeq {
			a.status, a.statusErr = "", false
		}
		return a, nil

	case pagerClosedMsg:
		if msg.err != nil {
			// Pager failed: show the same content in a popup instead
			a.logger.Warn().Err(msg.err).Str("title", msg.title).Msg("pager failed, falling back to popup")
			a.info = msg.content
		}
		return a, nil

	case openMenuMsg:
		a.menu = a.roleMenu(msg.roleID)
		return a, nil

	case openFormMsg:
		return a, a.openForm(msg.roleID)

	case formSubmittedMsg:
		return a, a.submitForm()

	case formCancelledMsg:
		a.form = nil
		return a, nil
	}

	if a.form != nil {
		return a, a.form.Update(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch {
	case a.menu != nil:
		switch msg.String() {
		case "up", "k", "shift+tab":
			a.menu.move(-1)
		case "down", "j", "tab":
			a.menu.move(1)
		case "enter":
			cmd := a.menu.choose(a.menu.cursor)
			a.menu = nil
			return cmd
		case "esc", "q":
			a.menu = nil
		}
		return nil

	case a.info != "":
		switch msg.String() {
		case "esc", "q", "enter":
			a.info = ""
		}
		return nil

	case a.showHelp:
		switch msg.String() {
		case "up", "k":
			a.helpOffset--
		case "down", "j":
			a.helpOffset++
		case "?", "esc", "q":
			a.showHelp = false
		}
		return nil
	}

	screen := a.activeScreen()
	if screen.Capturing() {
		return screen.Update(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.showHelp, a.helpOffset = true, 0
		return nil
	case key.Matches(msg, a.keys.Next):
		a.switchTo(a.active + 1)
		return nil
	case key.Matches(msg, a.keys.Prev):
		a.switchTo(a.active - 1)
		return nil
	case key.Matches(msg, a.keys.Jump):
		a.switchTo(int(msg.String()[0] - '1'))
		return nil
	}
	return screen.Update(msg)
}

// switchTo activates screen i, wrapping around
func (a *App) switchTo(i int) {
	n := len(a.screens)
	a.active = ((i % n) + n) % n
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.menu != nil {
		return a.handleMenuMouse(msg)
	}
	if a.info != "" || a.showHelp {
		return nil
	}

	if msg.Y == headerHeight-1 {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if i, ok := a.tabAt(msg.X); ok {
				a.switchTo(i)
			}
		}
		return nil
	}

	msg.Y -= headerHeight
	return a.activeScreen().Update(msg)
}

func (a *App) handleMenuMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress {
		return nil
	}
	popup := a.menu.view(a.styles)
	x, y := overlayOrigin(popup, a.width, a.height)
	inside := msg.X >= x && msg.X < x+lipgloss.Width(popup)

	if i, ok := a.menu.itemAt(msg.Y - y); ok && inside && msg.Button == tea.MouseButtonLeft {
		cmd := a.menu.choose(i)
		a.menu = nil
		return cmd
	}
	if !inside || msg.Y < y || msg.Y >= y+lipgloss.Height(popup) {
		a.menu = nil
	}
	return nil
}

// tabAt maps a column of the tab bar to a screen index
func (a *App) tabAt(x int) (int, bool) {
	pos := 0
	for i := range a.screens {
		w := lipgloss.Width(a.tabLabel(i))
		if x >= pos && x < pos+w {
			return i, true
		}
		pos += w
	}
	return 0, false
}

func (a *App) openForm(roleID string) tea.Cmd {
	store := a.svc.Store()
	exists := func(id string) bool {
		_, ok := store.Role(id)
		return ok
	}

	var role domain.Role
	if roleID != "" {
		r, ok := store.Role(roleID)
		if !ok {
			return errorCmd("role %s no longer exists", roleID)
		}
		role = r
	}
	a.menu = nil
	a.form = newRoleForm(role, exists)
	return a.form.Init()
}

func (a *App) submitForm() tea.Cmd {
	if a.form == nil {
		return nil
	}
	f := a.form
	a.form = nil

	role := f.result()
	store := a.svc.Store()
	if f.editing {
		if err := store.UpdateRole(role); err != nil {
			a.logger.Error().Err(err).Str("id", role.ID).Msg("update role")
			return errorCmd("update failed: %v", err)
		}
		return statusCmd("saved role " + role.ID)
	}
	if err := store.InsertRole(role); err != nil {
		a.logger.Error().Err(err).Str("id", role.ID).Msg("insert role")
		return errorCmd("add failed: %v", err)
	}
	return statusCmd("added role " + role.ID)
}

func (a *App) helpPagerCmd() tea.Cmd {
	sections := helpSections(a.activeScreen(), a.gridKeys, a.keys)
	return showInPager("Help", a.helpText.RenderHelpContentPlain("clubgrid Help", sections))
}

// --- view ---

func (a *App) tabLabel(i int) string {
	label := string(rune('1'+i)) + " " + a.screens[i].Title()
	if i == a.active {
		return a.styles.TabActive.Render(label)
	}
	return a.styles.TabInactive.Render(label)
}

func (a *App) tabsView() string {
	tabs := make([]string, len(a.screens))
	for i := range a.screens {
		tabs[i] = a.tabLabel(i)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) statusView() string {
	line := a.styles.Status.Render(a.status)
	switch {
	case a.statusErr:
		line = a.styles.StatusError.Render(a.status)
	case a.status != "":
		line = a.styles.StatusSuccess.Render(a.status)
	}
	if a.e2e {
		line += " " + ReadyMarker
	}
	return line
}

func (a *App) footerView() string {
	bindings := append(a.gridKeys.ShortHelp(), a.keys.Next, a.keys.Help, a.keys.Quit)
	return a.help.ShortHelpView(bindings)
}

// View renders the shell and any popup on top of it
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	screen := a.activeScreen()
	body := screen.View()
	if pad := a.height - headerHeight - footerHeight - lipgloss.Height(body); pad > 0 {
		body += strings.Repeat("\n", pad)
	}
	base := lipgloss.JoinVertical(lipgloss.Left,
		a.dashboard.View(a.styles),
		a.tabsView(),
		body,
		a.statusView(),
		a.footerView(),
	)

	switch {
	case a.form != nil:
		return renderOverlay(base, a.styles.Popup.Render(a.form.View()), a.width, a.height, a.styles.Faded)
	case a.menu != nil:
		return renderOverlay(base, a.menu.view(a.styles), a.width, a.height, a.styles.Faded)
	case a.info != "":
		popup := strings.TrimRight(a.info, "\n") + "\n" + a.styles.Dim.Render("esc to close")
		return renderOverlay(base, a.styles.Popup.Render(popup), a.width, a.height, a.styles.Faded)
	case a.showHelp:
		sections := helpSections(screen, a.gridKeys, a.keys)
		content, offset := a.helpText.renderHelpContent("clubgrid Help", sections, a.height, a.helpOffset)
		a.helpOffset = offset
		return renderOverlay(base, a.styles.Popup.Render(content), a.width, a.height, a.styles.Faded)
	}
	return base
}
