package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubgrid/internal/club"
	"clubgrid/internal/config"
	"clubgrid/internal/domain"
	"clubgrid/internal/eventbus"
	"clubgrid/internal/grid"
)

const (
	membersTab = iota
	coursesTab
	rolesTab
	consumptionTab
)

// chanDispatcher stands in for *tea.Program
type chanDispatcher chan tea.Msg

func (c chanDispatcher) Send(msg tea.Msg) { c <- msg }

type testApp struct {
	*App
	t     *testing.T
	store *club.Store
	bus   *eventbus.Bus
	msgs  chanDispatcher
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	seed, err := club.DefaultSeed()
	require.NoError(t, err)

	bus := eventbus.New(0)
	t.Cleanup(bus.Close)
	store := club.NewStore(bus)
	require.NoError(t, store.Load(seed))

	app, err := NewApp(config.DefaultConfig(), club.NewService(store), bus)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	msgs := make(chanDispatcher, 64)
	app.AttachProgram(msgs)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	return &testApp{App: app, t: t, store: store, bus: bus, msgs: msgs}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds msg to the app and returns the follow-up command
func (ta *testApp) send(msg tea.Msg) tea.Cmd {
	ta.t.Helper()
	_, cmd := ta.Update(msg)
	return cmd
}

// exec runs cmd and feeds its message back. Commands are expected to be
// immediate; status ticks are never run.
func (ta *testApp) exec(cmd tea.Cmd) tea.Msg {
	ta.t.Helper()
	require.NotNil(ta.t, cmd)
	msg := cmd()
	ta.send(msg)
	return msg
}

// pump applies dispatched bus notifications until one of type T arrives
func pump[T tea.Msg](ta *testApp) T {
	ta.t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case msg := <-ta.msgs:
			ta.send(msg)
			if m, ok := msg.(T); ok {
				return m
			}
		case <-deadline:
			var zero T
			ta.t.Fatalf("no %T dispatched", zero)
			return zero
		}
	}
}

func (ta *testApp) screen(i int) *grid.Controller {
	return ta.Screens()[i].Controller()
}

func (ta *testApp) view() string {
	return ansi.Strip(ta.View())
}

func TestNewApp_RequiresService(t *testing.T) {
	_, err := NewApp(nil, nil, nil)
	assert.Error(t, err)
}

func TestApp_ScreensInTabOrder(t *testing.T) {
	ta := newTestApp(t)
	titles := make([]string, 0, 4)
	for _, s := range ta.Screens() {
		titles = append(titles, s.Title())
	}
	assert.Equal(t, []string{"Members", "Courses", "Roles", "Consumption"}, titles)
	assert.True(t, ta.screen(membersTab).SelectMode())
}

func TestApp_TabSwitching(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, membersTab, ta.active)

	ta.send(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, coursesTab, ta.active)

	ta.send(tea.KeyMsg{Type: tea.KeyShiftTab})
	ta.send(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, consumptionTab, ta.active, "shift+tab wraps")

	ta.send(runes("3"))
	assert.Equal(t, rolesTab, ta.active)
}

func TestApp_GlobalKeysIgnoredWhileSearching(t *testing.T) {
	ta := newTestApp(t)
	ta.send(runes("3"))
	ta.send(runes("/"))
	require.True(t, ta.Screens()[rolesTab].Capturing())

	ta.send(runes("q"))
	ta.send(runes("1"))
	assert.Equal(t, rolesTab, ta.active)
	assert.Equal(t, "q1", ta.screen(rolesTab).Term())

	quit := ta.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, quit, "ctrl+c quits even while searching")
	assert.IsType(t, tea.QuitMsg{}, quit())

	ta.send(tea.KeyMsg{Type: tea.KeyEsc})
	cmd := ta.send(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_InsertRefreshesGridAndDashboard(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, ta.store.InsertRole(domain.Role{ID: "R005", Name: "Cleaner", Level: 1}))

	pump[grid.DataChangedMsg](ta)
	pump[countsChangedMsg](ta)

	roles := ta.screen(rolesTab)
	assert.Equal(t, 5, roles.RowCount())
	assert.Equal(t, "R005", roles.Row(0)[0], "new rows come first")
	assert.Equal(t, 5, ta.dashboard.Counts().Roles)
	assert.Equal(t, 5, ta.screen(membersTab).RowCount(), "other grids keep their rows")
}

func TestApp_DeleteSelectedRoles(t *testing.T) {
	ta := newTestApp(t)
	ta.send(runes("3"))

	assert.Nil(t, ta.send(runes("d")), "nothing selected is a no-op")

	ta.send(runes(" "))
	ta.send(runes("J"))
	require.Equal(t, 2, ta.screen(rolesTab).SelectionCount())

	msg := ta.exec(ta.send(runes("d")))
	assert.Equal(t, statusMsg{text: "deleted 2 role(s)"}, msg)
	assert.Equal(t, "deleted 2 role(s)", ta.status)

	pump[grid.DataChangedMsg](ta)
	roles := ta.screen(rolesTab)
	assert.Equal(t, 2, roles.RowCount())
	assert.Zero(t, roles.SelectionCount())
	_, ok := ta.store.Role("R001")
	assert.False(t, ok)
}

func TestApp_EditRequiresSingleSelection(t *testing.T) {
	ta := newTestApp(t)
	ta.send(runes("3"))

	assert.Nil(t, ta.send(runes("e")))
	assert.Nil(t, ta.form)

	ta.send(runes(" "))
	msg := ta.exec(ta.send(runes("e")))
	assert.Equal(t, openFormMsg{roleID: "R001"}, msg)
	require.NotNil(t, ta.form)
	assert.True(t, ta.form.editing)
	assert.Equal(t, "Administrator", ta.form.role.Name)
}

func TestApp_FormSubmit(t *testing.T) {
	ta := newTestApp(t)

	ta.send(openFormMsg{roleID: "R002"})
	require.NotNil(t, ta.form)
	ta.form.role.Name = "  Reception "
	msg := ta.exec(ta.send(formSubmittedMsg{}))
	assert.Equal(t, statusMsg{text: "saved role R002"}, msg)
	assert.Nil(t, ta.form)

	r, ok := ta.store.Role("R002")
	require.True(t, ok)
	assert.Equal(t, "Reception", r.Name)

	ta.send(openFormMsg{})
	require.NotNil(t, ta.form)
	assert.False(t, ta.form.editing)
	ta.form.role = domain.Role{ID: " R009 ", Name: "Temp", Level: 2}
	ta.exec(ta.send(formSubmittedMsg{}))
	_, ok = ta.store.Role("R009")
	assert.True(t, ok)

	ta.send(openFormMsg{})
	ta.form.role = domain.Role{ID: "R001", Name: "Again"}
	msg = ta.exec(ta.send(formSubmittedMsg{}))
	assert.True(t, msg.(statusMsg).err, "duplicate ids are reported")
}

func TestApp_FormCancel(t *testing.T) {
	ta := newTestApp(t)
	ta.send(openFormMsg{})
	require.NotNil(t, ta.form)
	assert.Equal(t, "Add role", ta.form.title())

	ta.send(formCancelledMsg{})
	assert.Nil(t, ta.form)
}

func TestApp_FormForMissingRole(t *testing.T) {
	ta := newTestApp(t)
	msg := ta.exec(ta.send(openFormMsg{roleID: "R404"}))
	assert.True(t, msg.(statusMsg).err)
	assert.Nil(t, ta.form)
}

func TestApp_ContextMenu(t *testing.T) {
	ta := newTestApp(t)
	ta.send(runes("3"))

	assert.Nil(t, ta.send(runes("m")), "menu needs exactly one selected row")

	ta.send(runes(" "))
	msg := ta.exec(ta.send(runes("m")))
	assert.Equal(t, openMenuMsg{roleID: "R001"}, msg)
	require.NotNil(t, ta.menu)
	assert.Contains(t, ta.view(), "Role Info")

	ta.send(tea.KeyMsg{Type: tea.KeyDown})
	cmd := ta.send(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, ta.menu)
	assert.Equal(t, openFormMsg{roleID: "R001"}, cmd())
}

func TestApp_ContextMenuMouse(t *testing.T) {
	ta := newTestApp(t)
	ta.send(openMenuMsg{roleID: "R003"})
	require.NotNil(t, ta.menu)

	x, y := overlayOrigin(ta.menu.view(ta.styles), ta.width, ta.height)
	cmd := ta.send(tea.MouseMsg{X: x + 2, Y: y + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.NotNil(t, cmd)
	assert.Equal(t, openFormMsg{roleID: "R003"}, cmd())

	ta.send(openMenuMsg{roleID: "R003"})
	ta.send(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Nil(t, ta.menu, "clicking outside closes the menu")
}

func TestApp_MemberPickerCommit(t *testing.T) {
	ta := newTestApp(t)
	members := ta.screen(membersTab)

	ta.send(runes("j"))
	ta.send(runes("j"))
	msg := ta.exec(ta.send(runes(" ")))
	assert.Equal(t, statusMsg{text: "M003 will become a main member, enter to save"}, msg)

	msg = ta.exec(ta.send(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, statusMsg{text: "updated 1 member(s)"}, msg)

	m, ok := ta.store.Member("M003")
	require.True(t, ok)
	assert.Equal(t, domain.MemberMain, m.Type)

	pump[grid.DataChangedMsg](ta)
	assert.Equal(t, grid.CheckboxCell{Checked: true}, members.Cell(2, club.MemberPickerSelectColumn))

	msg = ta.exec(ta.send(tea.KeyMsg{Type: tea.KeyEnter}))
	assert.Equal(t, statusMsg{text: "no member changes"}, msg)
}

func TestApp_MouseReachesActiveGrid(t *testing.T) {
	ta := newTestApp(t)
	ta.send(runes("3"))

	// dashboard + tabs, then grid title, toolbar and header
	ta.send(tea.MouseMsg{X: 4, Y: headerHeight + 3, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	roles := ta.screen(rolesTab)
	assert.Equal(t, []grid.RowKey{{Index: 0, Value: "R001"}}, roles.SelectedKeys())
}

func TestApp_TabClick(t *testing.T) {
	ta := newTestApp(t)
	x := lipgloss.Width(ta.tabLabel(0)) + 1
	ta.send(tea.MouseMsg{X: x, Y: headerHeight - 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, coursesTab, ta.active)
}

func TestApp_PagerFailureFallsBackToPopup(t *testing.T) {
	ta := newTestApp(t)
	ta.send(pagerClosedMsg{title: "Role Info", content: roleInfo(domain.Role{ID: "R001", Name: "Administrator"}), err: errors.New("no tty")})
	assert.Contains(t, ta.view(), "Administrator")
	assert.Contains(t, ta.view(), "esc to close")

	ta.send(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, ta.info)

	ta.send(pagerClosedMsg{title: "Role Info"})
	assert.Empty(t, ta.info, "a clean exit shows nothing")
}

func TestApp_HelpOverlay(t *testing.T) {
	ta := newTestApp(t)
	ta.send(runes("3"))
	ta.send(runes("?"))
	require.True(t, ta.showHelp)

	v := ta.view()
	assert.Contains(t, v, "clubgrid Help")
	assert.Contains(t, v, "Navigation")

	ta.send(runes("?"))
	assert.False(t, ta.showHelp)
}

func TestApp_ViewShowsDashboardAndTabs(t *testing.T) {
	ta := newTestApp(t)
	v := ta.view()
	assert.Contains(t, v, "members 5 (3 main / 2 sub)")
	assert.Contains(t, v, "1 Members")
	assert.Contains(t, v, "4 Consumption")
	assert.Contains(t, v, "Erik Larsen")
	assert.NotContains(t, v, ReadyMarker)
}

func TestApp_ReadyMarker(t *testing.T) {
	t.Setenv(E2EEnv, "1")
	ta := newTestApp(t)
	assert.Contains(t, ta.view(), ReadyMarker)
}

func TestApp_StatusClearsOnlyLatest(t *testing.T) {
	ta := newTestApp(t)
	ta.send(statusMsg{text: "first"})
	ta.send(statusMsg{text: "second"})

	ta.send(clearStatusMsg{seq: 1})
	assert.Equal(t, "second", ta.status)
	ta.send(clearStatusMsg{seq: 2})
	assert.Empty(t, ta.status)
}

func TestApp_CloseReleasesSubscriptions(t *testing.T) {
	ta := newTestApp(t)
	assert.Equal(t, 2, ta.bus.SubscriberCount(domain.EntityRole), "roles grid and dashboard")

	ta.Close()
	for _, et := range domain.EntityTypes {
		assert.Zero(t, ta.bus.SubscriberCount(et), et)
	}
}

func TestApp_WatchBusReportsPanics(t *testing.T) {
	ta := newTestApp(t)
	ta.WatchBus(ta.bus)

	ta.bus.Subscribe(domain.EntityCourse, func(any, domain.Operation) { panic("boom") })
	ta.bus.Publish(domain.EntityCourse, nil, domain.OpUpdate)

	msg := pump[statusMsg](ta)
	assert.True(t, msg.err)
	assert.Equal(t, "course refresh failed: boom", msg.text)
	assert.Equal(t, "course refresh failed: boom", ta.status)
}

func TestApp_WatchBusReportsDrops(t *testing.T) {
	ta := newTestApp(t)
	ta.WatchBus(ta.bus)

	ta.bus.Close()
	ta.bus.Publish(domain.EntityRole, nil, domain.OpDelete)

	msg := pump[statusMsg](ta)
	assert.Equal(t, statusMsg{text: "role change was not delivered", err: true}, msg)
}

func TestApp_ConsumptionDoubleClickUsesOwnGrid(t *testing.T) {
	ta := newTestApp(t)
	for _, id := range []string{"X100", "X101"} {
		require.NoError(t, ta.store.InsertConsumption(domain.Consumption{
			ID: id, MemberID: "M001", CourseID: "C001", Amount: 10, Date: "2025-04-01",
		}))
		pump[grid.DataChangedMsg](ta)
	}

	consumption := ta.screen(consumptionTab)
	require.Equal(t, 7, consumption.RowCount())
	require.Equal(t, membersTab, ta.active)
	require.Less(t, ta.screen(membersTab).RowCount(), 7)

	assert.NotNil(t, consumption.DoubleClick(6), "the hook reads its own rows, not the active tab's")
}
