package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"clubgrid/internal/domain"
)

func TestRoleForm_Add(t *testing.T) {
	f := newRoleForm(domain.Role{}, func(string) bool { return false })

	assert.False(t, f.editing)
	assert.Equal(t, "Add role", f.title())
	assert.Equal(t, 1, f.role.Level, "level defaults to read only")

	f.role.ID = " R010 "
	f.role.Name = "  Volunteer "
	f.role.Description = "helps out\t"
	assert.Equal(t, domain.Role{ID: "R010", Name: "Volunteer", Description: "helps out", Level: 1}, f.result())
}

func TestRoleForm_Edit(t *testing.T) {
	role := domain.Role{ID: "R002", Name: "Front Desk", Level: 2}
	f := newRoleForm(role, func(string) bool { return true })

	assert.True(t, f.editing)
	assert.Equal(t, "Edit role R002", f.title())
	assert.Equal(t, role, f.result())
}

func TestRoleForm_CompletionMessages(t *testing.T) {
	f := newRoleForm(domain.Role{}, func(string) bool { return false })

	assert.Equal(t, formSubmittedMsg{}, f.form.SubmitCmd())
	assert.Equal(t, formCancelledMsg{}, f.form.CancelCmd())
}
