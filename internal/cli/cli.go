package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/indaco/pkgmeta/internal/commands/check"
	"github.com/indaco/pkgmeta/internal/commands/describe"
	"github.com/indaco/pkgmeta/internal/commands/initialize"
	"github.com/indaco/pkgmeta/internal/commands/packages"
	"github.com/indaco/pkgmeta/internal/commands/show"
	"github.com/indaco/pkgmeta/internal/config"
	"github.com/indaco/pkgmeta/internal/printer"
	"github.com/indaco/pkgmeta/internal/tui"
	urfavecli "github.com/urfave/cli/v3"
)

// Version is the pkgmeta release, set with -ldflags at build time.
var Version = "0.1.0"

// New builds and returns the root CLI command. cfg is filled from the config
// file before any subcommand other than init runs.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "pkgmeta",
		Version:               fmt.Sprintf("v%s", Version),
		Usage:                 "Static package descriptors for Python distributions",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to the config file",
				DefaultText: config.DefaultConfigFile,
			},
			&urfavecli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			printer.SetNoColor(cmd.Bool("no-color"))
			// init writes the config file and must work over a broken one.
			if cmd.Args().First() != initialize.CommandName {
				if err := loadInto(cfg, cmd.String("config")); err != nil {
					return ctx, err
				}
			}
			tui.SetTheme(cfg.GetTheme())
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			initialize.Run(),
			show.Run(cfg),
			packages.Run(cfg),
			describe.Run(cfg),
			check.Run(cfg),
		},
	}
}

// loadInto replaces *cfg with the loaded config, or with defaults for the
// working directory when no config file exists.
func loadInto(cfg *config.Config, path string) error {
	loaded, err := config.LoadConfigFn(path)
	if err != nil {
		return err
	}
	if loaded == nil {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		loaded = config.Default(config.InferName(wd))
	}
	*cfg = *loaded
	return nil
}
