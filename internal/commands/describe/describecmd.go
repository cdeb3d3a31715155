package describe

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/indaco/pkgmeta/internal/config"
	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/descriptor"
	"github.com/indaco/pkgmeta/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "describe" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:    "describe",
		Aliases: []string{"build"},
		Usage:   "Build the package descriptor and render it for the build tool",
		UsageText: `pkgmeta describe [--format json|yaml|toml] [--output file]

Extracts the version from the version source, discovers packages and renders
the descriptor. Nothing is written when extraction fails.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: " + formatList(),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the descriptor to a file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runDescribeCmd(ctx, cmd, cfg)
		},
	}
}

// runDescribeCmd builds and renders the descriptor.
func runDescribeCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	format := descriptor.Format(cfg.Output)
	if cmd.IsSet("format") {
		format = descriptor.Format(cmd.String("format"))
	}
	if !format.IsValid() {
		return fmt.Errorf("unknown output format %q (want %s)", format, formatList())
	}

	fs := core.NewOSFileSystem()
	build, err := descriptor.NewBuilder(fs).Build(ctx, cfg.Input())
	if err != nil {
		return err
	}
	if build.Version.Defaulted {
		fmt.Fprintln(os.Stderr, printer.Warning(build.Version.DefaultedWarning()))
	}

	data, err := descriptor.Render(build.Descriptor, format)
	if err != nil {
		return fmt.Errorf("failed to render descriptor: %w", err)
	}

	output := cmd.String("output")
	if output == "" {
		fmt.Print(string(data))
		return nil
	}

	if err := fs.WriteFile(ctx, output, data, core.PermPublicRead); err != nil {
		return fmt.Errorf("failed to write descriptor to %q: %w", output, err)
	}
	printer.PrintSuccess(fmt.Sprintf("Wrote %s %s descriptor to %s",
		build.Descriptor.Name(), build.Descriptor.Version(), output))
	return nil
}

func formatList() string {
	names := make([]string, len(descriptor.Formats))
	for i, f := range descriptor.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
