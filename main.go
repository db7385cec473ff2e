package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"clubgrid/internal/commands"
	"clubgrid/internal/config"
	"clubgrid/internal/logging"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		logCloser func()
		flags     = &commands.Flags{}
		env       = &commands.Env{}
	)

	app := &cli.Command{
		Name:      "clubgrid",
		Usage:     "Browse club members, courses, roles and consumption",
		UsageText: "clubgrid [global options] [command [command options]]",
		Description: `clubgrid shows the club's records in searchable, selectable grids.

Run 'clubgrid' with no arguments to open the interactive grids.
Run 'clubgrid list roles' to print a table without starting the UI.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal); defaults to the config value",
				Sources:     cli.EnvVars("CLUBGRID_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file; logs are discarded when neither this nor the config sets one",
				Sources:     cli.EnvVars("CLUBGRID_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file, created with defaults when missing",
				Sources:     cli.EnvVars("CLUBGRID_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "seed",
				Usage:       "YAML file with the records to load; defaults to the built-in demo club",
				Sources:     cli.EnvVars("CLUBGRID_SEED"),
				Destination: &flags.SeedFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := config.NewConfigService().LoadOrCreate(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			level, file := flags.LogLevel, flags.LogFile
			if level == "" {
				level = cfg.Log.Level
			}
			if file == "" {
				file = cfg.Log.File
			}
			logger, closer, err := logging.New(level, file)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if err := env.Open(cfg, flags.SeedFile); err != nil {
				return ctx, err
			}
			log.Info().Str("config", flags.ConfigPath).Msg("clubgrid started")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			env.Close()
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(env)
	app = commands.NewListCmd(env).Register(app)

	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'clubgrid --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
