package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"clubgrid/internal/ui"
)

// TuiCmd runs the interactive grids. It is the root action rather than a
// subcommand.
type TuiCmd struct {
	env *Env
}

// NewTuiCmd creates the TUI command
func NewTuiCmd(env *Env) *TuiCmd {
	return &TuiCmd{env: env}
}

// Run starts the program and blocks until the user quits
func (cmd *TuiCmd) Run(ctx context.Context, _ *cli.Command) error {
	app, err := ui.NewApp(cmd.env.Config, cmd.env.Service, cmd.env.Bus)
	if err != nil {
		return fmt.Errorf("create ui: %w", err)
	}
	defer app.Close()

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	app.AttachProgram(p)
	app.WatchBus(cmd.env.Bus)

	log.Info().Msg("starting ui")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	log.Info().Msg("ui exited")
	return nil
}
