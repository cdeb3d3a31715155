package show

import (
	"context"
	"fmt"
	"os"

	"github.com/indaco/pkgmeta/internal/config"
	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/parser"
	"github.com/indaco/pkgmeta/internal/printer"
	"github.com/indaco/pkgmeta/internal/version"
	"github.com/urfave/cli/v3"
)

// Run returns the "version" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "version",
		Aliases:   []string{"show"},
		Usage:     "Print the version declared by the version source",
		UsageText: "pkgmeta version [--file path] [--format name] [--key name] [--default value] [--strict] [--semver]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Version source file (overrides version.file)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Version source format: python, json, yaml, toml, raw, regex",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Identifier or dot-notation field holding the version",
			},
			&cli.StringFlag{
				Name:  "pattern",
				Usage: "Capturing regex for the regex format",
			},
			&cli.StringFlag{
				Name:  "default",
				Usage: "Version used when the key is absent",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail when the key is absent instead of using the default",
			},
			&cli.BoolFlag{
				Name:  "semver",
				Usage: "Require MAJOR.MINOR.PATCH[-pre][+build]",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runShowCmd(ctx, cmd, cfg)
		},
	}
}

// runShowCmd extracts and prints the version.
func runShowCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	src, err := sourceFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	res, err := version.NewExtractor(core.NewOSFileSystem()).Extract(ctx, src)
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}

	if res.Defaulted {
		fmt.Fprintln(os.Stderr, printer.Warning(res.DefaultedWarning()))
	}
	fmt.Println(res.Version)
	return nil
}

// sourceFromFlags layers command flags over the configured version source.
func sourceFromFlags(cmd *cli.Command, cfg *config.Config) (version.Source, error) {
	var src version.Source
	if cfg != nil {
		src = cfg.VersionSource()
	}

	if cmd.IsSet("file") {
		src.Path = cmd.String("file")
	}
	if cmd.IsSet("format") {
		f := parser.Format(cmd.String("format"))
		if !f.IsValid() {
			return src, fmt.Errorf("unknown version format %q", f)
		}
		src.Format = f
	}
	if cmd.IsSet("key") {
		src.Key = cmd.String("key")
	}
	if cmd.IsSet("pattern") {
		src.Pattern = cmd.String("pattern")
	}
	if cmd.IsSet("default") {
		src.Default = cmd.String("default")
	}
	if cmd.IsSet("strict") {
		src.Strict = cmd.Bool("strict")
	}
	if cmd.IsSet("semver") {
		src.RequireSemver = cmd.Bool("semver")
	}

	if src.Path == "" {
		return src, fmt.Errorf("no version file configured: pass --file or set name in %s", config.DefaultConfigFile)
	}
	return src, nil
}
