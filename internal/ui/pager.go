package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"clubgrid/internal/club"
	"clubgrid/internal/domain"
)

// pagerCommand shows content in the ov pager. It satisfies tea.ExecCommand so
// bubbletea releases the terminal while ov owns it and restores it after.
type pagerCommand struct {
	content string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *pagerCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *pagerCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *pagerCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens ov on the content. ov drives the terminal itself through tcell,
// so the standard streams are only recorded.
func (c *pagerCommand) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(c.content))
	if err != nil {
		return fmt.Errorf("open pager: %w", err)
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// showInPager returns a command that pages content. The result arrives as
// pagerClosedMsg so a failure can fall back to an in-app popup.
func showInPager(title, content string) tea.Cmd {
	return tea.Exec(&pagerCommand{content: content}, func(err error) tea.Msg {
		return pagerClosedMsg{title: title, content: content, err: err}
	})
}

var (
	infoTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")).MarginBottom(1)
	infoLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(14)
	infoValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

type infoField struct {
	label string
	value string
}

func renderInfo(title string, fields ...infoField) string {
	var b strings.Builder
	b.WriteString(infoTitleStyle.Render(title))
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(infoLabelStyle.Render(f.label))
		b.WriteString(infoValueStyle.Render(f.value))
	}
	b.WriteString("\n")
	return b.String()
}

func roleInfo(r domain.Role) string {
	return renderInfo("Role Info",
		infoField{"ID", r.ID},
		infoField{"Name", r.Name},
		infoField{"Description", r.Description},
		infoField{"Level", fmt.Sprintf("%d", r.Level)},
	)
}

func courseInfo(c domain.Course) string {
	return renderInfo("Course Info",
		infoField{"ID", c.ID},
		infoField{"Name", c.Name},
		infoField{"Coach", c.Coach},
		infoField{"Schedule", c.Schedule},
		infoField{"Price", fmt.Sprintf("%.2f", c.Price)},
		infoField{"Capacity", fmt.Sprintf("%d", c.Capacity)},
	)
}

// memberInfo renders a member. mainName is the paying member of a sub member.
func memberInfo(m domain.Member, mainName string) string {
	fields := []infoField{
		{"ID", m.ID},
		{"Name", m.Name},
		{"Phone", m.Phone},
		{"Type", string(m.Type)},
	}
	if m.Type == domain.MemberSub && mainName != "" {
		fields = append(fields, infoField{"Main Member", mainName})
	}
	fields = append(fields, infoField{"Joined", m.JoinedAt})
	return renderInfo("Member Info", fields...)
}

// consumptionInfo renders a consumption row as shown in the grid
func consumptionInfo(row []string) string {
	fields := make([]infoField, 0, len(row))
	for i, v := range row {
		if i >= len(club.ConsumptionColumns) {
			break
		}
		fields = append(fields, infoField{club.ConsumptionColumns[i], v})
	}
	return renderInfo("Consumption Info", fields...)
}
