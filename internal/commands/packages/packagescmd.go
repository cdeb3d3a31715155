package packages

import (
	"context"
	"fmt"

	"github.com/indaco/pkgmeta/internal/config"
	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/discovery"
	"github.com/indaco/pkgmeta/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "packages" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "packages",
		Aliases:   []string{"ls"},
		Usage:     "List the packages that would be shipped",
		UsageText: "pkgmeta packages [--where dir] [--include pattern]... [--exclude pattern]...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "where",
				Usage: "Directory to search (overrides packages.where)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only list packages matching this pattern (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip packages matching this pattern (repeatable, replaces packages.exclude)",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Print names only",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runPackagesCmd(ctx, cmd, cfg)
		},
	}
}

// runPackagesCmd discovers and prints package names, one per line.
func runPackagesCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	opts := discovery.Options{Where: "."}
	if cfg != nil {
		opts = cfg.PackageOptions()
	}
	if cmd.IsSet("where") {
		opts.Where = cmd.String("where")
	}
	if cmd.IsSet("include") {
		opts.Include = cmd.StringSlice("include")
	}
	if cmd.IsSet("exclude") {
		opts.Exclude = cmd.StringSlice("exclude")
	}

	found, err := discovery.NewFinder(core.NewOSFileSystem()).Find(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to discover packages: %w", err)
	}

	for _, name := range found {
		fmt.Println(name)
	}
	if !cmd.Bool("quiet") {
		printer.PrintFaint(fmt.Sprintf("%d package(s) under %s", len(found), opts.Where))
	}
	return nil
}
