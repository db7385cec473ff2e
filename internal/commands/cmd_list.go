package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/urfave/cli/v3"

	"clubgrid/internal/club"
	"clubgrid/internal/domain"
	"clubgrid/internal/grid"
)

var entityNames = map[string]domain.EntityType{
	"member":       domain.EntityMember,
	"members":      domain.EntityMember,
	"course":       domain.EntityCourse,
	"courses":      domain.EntityCourse,
	"role":         domain.EntityRole,
	"roles":        domain.EntityRole,
	"consumption":  domain.EntityConsumption,
	"consumptions": domain.EntityConsumption,
}

// parseEntity maps a command line name to an entity type
func parseEntity(name string) (domain.EntityType, error) {
	et, ok := entityNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("unknown entity %q (want members, courses, roles or consumption)", name)
	}
	return et, nil
}

type ListCmd struct {
	env *Env

	// flags
	search string
}

// NewListCmd creates a new list command
func NewListCmd(env *Env) *ListCmd {
	return &ListCmd{env: env}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "Print one entity as a table",
		UsageText: "clubgrid list <members|courses|roles|consumption> [--search term]",
		Description: `Renders the same rows the interactive grid shows, without starting the UI.

--search applies the grid filter: a regular expression matched against the
entity's filter columns, falling back to a literal match when it does not
compile.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "search",
				Aliases:     []string{"s"},
				Usage:       "filter rows by a regular expression",
				Destination: &cmd.search,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(_ context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("list takes exactly one entity, got %d", c.Args().Len())
	}
	et, err := parseEntity(c.Args().First())
	if err != nil {
		return err
	}

	rows := cmd.env.Service.Rows(et)
	visible := grid.Filter(rows, club.FilterColumns(et), cmd.search)

	out := c.Root().Writer
	_, _ = fmt.Fprintln(out, renderTable(club.Columns(et), rows, visible, cmd.search))
	_, _ = fmt.Fprintf(out, "%d of %d %s(s)\n", len(visible), len(rows), et)
	return nil
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD75F"))
)

// renderTable draws the visible rows, marking occurrences of term
func renderTable(columns []string, rows [][]string, visible []int, term string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, i := range visible {
		cells := make([]string, len(rows[i]))
		for col, v := range rows[i] {
			cells[col] = v
			if term != "" {
				cells[col] = grid.RenderHighlighted(v, term, lipgloss.NewStyle(), highlightStyle)
			}
		}
		t.Row(cells...)
	}
	return t.String()
}
