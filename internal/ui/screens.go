package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"clubgrid/internal/club"
	"clubgrid/internal/domain"
	"clubgrid/internal/grid"
)

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func statusCmd(text string) tea.Cmd {
	return msgCmd(statusMsg{text: text})
}

func errorCmd(format string, args ...any) tea.Cmd {
	return msgCmd(statusMsg{text: fmt.Sprintf(format, args...), err: true})
}

// control builds a toolbar control bound to k
func control(k, desc string, single bool, action func(*grid.Controller) tea.Cmd) grid.ControlBuilder {
	return func(*grid.Controller) grid.Control {
		return grid.Control{
			Binding:                 key.NewBinding(key.WithKeys(k), key.WithHelp(k, desc)),
			RequiresSingleSelection: single,
			Action:                  action,
		}
	}
}

func (a *App) gridOptions() []grid.Option {
	opts := []grid.Option{
		grid.WithStyles(grid.NewStyles(a.theme)),
		grid.WithKeyMap(a.gridKeys),
		grid.WithDoubleClick(time.Duration(a.cfg.UI.DoubleClickMS) * time.Millisecond),
		grid.WithPageSize(a.cfg.UI.PageSize),
	}
	if a.bus != nil {
		opts = append(opts, grid.WithBus(a.bus, a.relay))
	}
	return opts
}

// buildScreens creates one grid per entity type, in tab order
func (a *App) buildScreens() error {
	builders := []func() (*grid.Model, error){
		a.newMembersScreen,
		a.newCoursesScreen,
		a.newRolesScreen,
		a.newConsumptionScreen,
	}
	for _, build := range builders {
		screen, err := build()
		if err != nil {
			a.Close()
			return err
		}
		a.screens = append(a.screens, screen)
	}
	return nil
}

// --- members ---

// newMembersScreen is the main member picker. Checking a row marks the
// member as main; enter writes every checked row back to the store.
func (a *App) newMembersScreen() (*grid.Model, error) {
	fetch := func(domain.EntityType) [][]string { return a.svc.MemberPickerRows() }
	return grid.New(grid.Config{
		Title:         "Members",
		Columns:       club.MemberPickerColumns,
		Rows:          fetch(domain.EntityMember),
		FilterColumns: club.FilterColumns(domain.EntityMember),
		SelectMode:    true,
		SelectColumn:  club.MemberPickerSelectColumn,
		EntityType:    domain.EntityMember,
		Fetch:         fetch,
		Toolbar: []grid.ControlBuilder{
			control("enter", "save main members", false, a.saveMainMembers),
		},
		OnDoubleClick: func(k grid.RowKey) tea.Cmd { return a.memberInfoCmd(k.Value) },
		OnToggle: func(k grid.RowKey, checked bool) tea.Cmd {
			kind := domain.MemberSub
			if checked {
				kind = domain.MemberMain
			}
			return statusCmd(fmt.Sprintf("%s will become a %s member, enter to save", k.Value, kind))
		},
	}, a.gridOptions()...)
}

func (a *App) saveMainMembers(c *grid.Controller) tea.Cmd {
	checked := c.CheckedKeys()
	ids := make([]string, 0, len(checked))
	for _, k := range checked {
		ids = append(ids, k.Value)
	}

	changed := a.svc.Store().SetMainMembers(ids)
	a.logger.Info().Int("main", len(ids)).Int("changed", changed).Msg("main members saved")
	if changed == 0 {
		return statusCmd("no member changes")
	}
	return statusCmd(fmt.Sprintf("updated %d member(s)", changed))
}

func (a *App) memberInfoCmd(id string) tea.Cmd {
	store := a.svc.Store()
	m, ok := store.Member(id)
	if !ok {
		return errorCmd("member %s no longer exists", id)
	}
	var mainName string
	if main, ok := store.Member(m.MainMemberID); ok {
		mainName = main.Name
	}
	return showInPager("Member Info", memberInfo(m, mainName))
}

// --- courses ---

func (a *App) newCoursesScreen() (*grid.Model, error) {
	return grid.New(grid.Config{
		Title:         "Courses",
		Columns:       club.CourseColumns,
		Rows:          a.svc.Rows(domain.EntityCourse),
		FilterColumns: club.FilterColumns(domain.EntityCourse),
		EntityType:    domain.EntityCourse,
		Fetch:         a.svc.Rows,
		FilterBar: []grid.ControlBuilder{
			grid.PresetControl("f1", "weekend", "Sat|Sun"),
			grid.PresetControl("f2", "evening", "1[7-9]:|2[0-3]:"),
		},
		OnDoubleClick: func(k grid.RowKey) tea.Cmd {
			c, ok := a.svc.Store().Course(k.Value)
			if !ok {
				return errorCmd("course %s no longer exists", k.Value)
			}
			return showInPager("Course Info", courseInfo(c))
		},
	}, a.gridOptions()...)
}

// --- roles ---

func (a *App) newRolesScreen() (*grid.Model, error) {
	return grid.New(grid.Config{
		Title:         "Roles",
		Columns:       club.RoleColumns,
		Rows:          a.svc.Rows(domain.EntityRole),
		FilterColumns: club.FilterColumns(domain.EntityRole),
		EntityType:    domain.EntityRole,
		Fetch:         a.svc.Rows,
		Toolbar: []grid.ControlBuilder{
			control("a", "add", false, func(*grid.Controller) tea.Cmd {
				return msgCmd(openFormMsg{})
			}),
			control("e", "edit", true, func(c *grid.Controller) tea.Cmd {
				return msgCmd(openFormMsg{roleID: c.SelectedKeys()[0].Value})
			}),
			control("d", "delete", false, a.deleteRoles),
			control("r", "refresh", false, func(c *grid.Controller) tea.Cmd {
				c.Refresh(domain.OpInsert)
				return statusCmd("roles refreshed")
			}),
			control("H", "help", false, func(*grid.Controller) tea.Cmd {
				return a.helpPagerCmd()
			}),
		},
		FilterBar: []grid.ControlBuilder{
			grid.PresetControl("f1", "admin", "admin"),
			grid.PresetControl("f2", "read-only", "read-only"),
		},
		OnRightClick:  func(k grid.RowKey) tea.Cmd { return msgCmd(openMenuMsg{roleID: k.Value}) },
		OnDoubleClick: func(k grid.RowKey) tea.Cmd { return a.roleInfoCmd(k.Value) },
	}, a.gridOptions()...)
}

func (a *App) deleteRoles(c *grid.Controller) tea.Cmd {
	selected := c.SelectedKeys()
	if len(selected) == 0 {
		return nil
	}
	ids := make([]string, 0, len(selected))
	for _, k := range selected {
		ids = append(ids, k.Value)
	}
	removed := a.svc.Store().DeleteRoles(ids...)
	a.logger.Info().Strs("ids", ids).Int("removed", removed).Msg("roles deleted")
	return statusCmd(fmt.Sprintf("deleted %d role(s)", removed))
}

func (a *App) roleInfoCmd(id string) tea.Cmd {
	r, ok := a.svc.Store().Role(id)
	if !ok {
		return errorCmd("role %s no longer exists", id)
	}
	return showInPager("Role Info", roleInfo(r))
}

// roleMenu is the right-click menu of a role row
func (a *App) roleMenu(id string) *contextMenu {
	return newContextMenu(id,
		menuItem{label: "Role Info", action: a.roleInfoCmd(id)},
		menuItem{label: "Edit", action: msgCmd(openFormMsg{roleID: id})},
	)
}

// --- consumption ---

func (a *App) newConsumptionScreen() (*grid.Model, error) {
	month := a.now().Format("2006-01")
	var screen *grid.Model
	screen, err := grid.New(grid.Config{
		Title:         "Consumption",
		Columns:       club.ConsumptionColumns,
		Rows:          a.svc.Rows(domain.EntityConsumption),
		FilterColumns: club.FilterColumns(domain.EntityConsumption),
		EntityType:    domain.EntityConsumption,
		Fetch:         a.svc.Rows,
		FilterBar: []grid.ControlBuilder{
			grid.PresetControl("f1", "this month", month),
		},
		OnDoubleClick: func(k grid.RowKey) tea.Cmd {
			row := screen.Controller().Row(k.Index)
			if row == nil {
				return nil
			}
			return showInPager("Consumption Info", consumptionInfo(row))
		},
	}, a.gridOptions()...)
	return screen, err
}
