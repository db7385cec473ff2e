package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"clubgrid/internal/domain"
)

var (
	errRequired = errors.New("required")
	errTaken    = errors.New("id already in use")
)

// roleLevels are the access levels offered by the role dialog
var roleLevels = []huh.Option[int]{
	huh.NewOption("1 · read only", 1),
	huh.NewOption("2 · front desk", 2),
	huh.NewOption("3 · full access", 3),
}

// roleForm is the add/edit role dialog. It is embedded in the App rather
// than run on its own program, so completion is reported through
// formSubmittedMsg and formCancelledMsg.
type roleForm struct {
	editing bool
	form    *huh.Form
	role    domain.Role
}

// newRoleForm builds the dialog. A zero role adds one; exists reports
// whether an ID is already taken.
func newRoleForm(role domain.Role, exists func(id string) bool) *roleForm {
	f := &roleForm{editing: role.ID != "", role: role}
	if f.role.Level == 0 {
		f.role.Level = 1
	}

	var fields []huh.Field
	if !f.editing {
		fields = append(fields, huh.NewInput().
			Key("id").
			Title("ID").
			Placeholder("R005").
			Validate(func(s string) error {
				s = strings.TrimSpace(s)
				if s == "" {
					return errRequired
				}
				if exists(s) {
					return errTaken
				}
				return nil
			}).
			Value(&f.role.ID))
	}
	fields = append(fields,
		huh.NewInput().
			Key("name").
			Title("Name").
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errRequired
				}
				return nil
			}).
			Value(&f.role.Name),
		huh.NewInput().
			Key("description").
			Title("Description").
			Value(&f.role.Description),
		huh.NewSelect[int]().
			Key("level").
			Title("Level").
			Options(roleLevels...).
			Value(&f.role.Level),
	)

	f.form = huh.NewForm(huh.NewGroup(fields...).Title(f.title())).
		WithShowHelp(true).
		WithWidth(48).
		WithTheme(huh.ThemeCharm())
	f.form.SubmitCmd = func() tea.Msg { return formSubmittedMsg{} }
	f.form.CancelCmd = func() tea.Msg { return formCancelledMsg{} }
	return f
}

func (f *roleForm) title() string {
	if f.editing {
		return fmt.Sprintf("Edit role %s", f.role.ID)
	}
	return "Add role"
}

func (f *roleForm) Init() tea.Cmd {
	return f.form.Init()
}

func (f *roleForm) Update(msg tea.Msg) tea.Cmd {
	model, cmd := f.form.Update(msg)
	if form, ok := model.(*huh.Form); ok {
		f.form = form
	}
	return cmd
}

func (f *roleForm) View() string {
	return f.form.View()
}

// result returns the entered role with surrounding whitespace removed
func (f *roleForm) result() domain.Role {
	r := f.role
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	return r
}
