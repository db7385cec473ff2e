package ui

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"clubgrid/internal/domain"
)

func TestRoleInfo(t *testing.T) {
	out := ansi.Strip(roleInfo(domain.Role{ID: "R001", Name: "Administrator", Description: "full access", Level: 3}))

	assert.Contains(t, out, "Role Info")
	assert.Contains(t, out, "Administrator")
	assert.Contains(t, out, "full access")
	assert.Regexp(t, `Level\s+3`, out)
}

func TestCourseInfo(t *testing.T) {
	out := ansi.Strip(courseInfo(domain.Course{ID: "C001", Name: "Yoga", Price: 12.5, Capacity: 20}))

	assert.Regexp(t, `Price\s+12\.50`, out)
	assert.Regexp(t, `Capacity\s+20`, out)
}

func TestMemberInfo(t *testing.T) {
	sub := domain.Member{ID: "M003", Name: "Lina", Type: domain.MemberSub, MainMemberID: "M001"}

	out := ansi.Strip(memberInfo(sub, "Erik Larsen"))
	assert.Regexp(t, `Main Member\s+Erik Larsen`, out)

	main := domain.Member{ID: "M001", Name: "Erik Larsen", Type: domain.MemberMain}
	out = ansi.Strip(memberInfo(main, "ignored"))
	assert.NotContains(t, out, "Main Member")
}

func TestConsumptionInfo(t *testing.T) {
	out := ansi.Strip(consumptionInfo([]string{"X001", "Erik Larsen", "Yoga", "12.50", "2025-03-02", "extra"}))

	assert.Regexp(t, `Member\s+Erik Larsen`, out)
	assert.Regexp(t, `Date\s+2025-03-02`, out)
	assert.NotContains(t, out, "extra")
}
