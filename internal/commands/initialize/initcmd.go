package initialize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/indaco/pkgmeta/internal/config"
	"github.com/indaco/pkgmeta/internal/git"
	"github.com/indaco/pkgmeta/internal/printer"
	"github.com/indaco/pkgmeta/internal/tui"
	"github.com/urfave/cli/v3"
)

// Test hooks.
var (
	isInteractiveFn  = tui.IsInteractive
	promptFn         = promptMetadata
	confirmFn        = tui.Confirm
	lookupIdentityFn = git.LookupIdentity
)

// CommandName is the name init is registered under.
const CommandName = "init"

// Run returns the "init" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      CommandName,
		Usage:     "Create a " + config.DefaultConfigFile + " for the current project",
		UsageText: "pkgmeta init [--name pkg] [--yes] [--force] [--no-git] [--path file]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "name",
				Usage: "Distribution name (defaults to the directory name)",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept defaults without prompting",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
			&cli.BoolFlag{
				Name:  "no-git",
				Usage: "Do not prefill author and URL from git",
			},
			&cli.StringFlag{
				Name:  "path",
				Usage: "Config file to write",
				Value: config.DefaultConfigFile,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInitCmd(ctx, cmd)
		},
	}
}

// runInitCmd writes a new config file.
func runInitCmd(ctx context.Context, cmd *cli.Command) error {
	target := cmd.String("path")
	interactive := !cmd.Bool("yes") && isInteractiveFn()

	if _, err := os.Stat(target); err == nil && !cmd.Bool("force") {
		if !interactive {
			return fmt.Errorf("%s already exists, use --force to overwrite", target)
		}
		ok, err := confirmFn(fmt.Sprintf("%s already exists", target), "Overwrite it?")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s already exists, not overwritten", target)
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", target, err)
	}

	root := filepath.Dir(target)
	name := cmd.String("name")
	if name == "" {
		name = config.InferName(root)
	}

	cfg := &config.Config{Name: name}
	if !cmd.Bool("no-git") {
		id := lookupIdentityFn(ctx, root)
		cfg.Author, cfg.AuthorEmail, cfg.URL = id.Name, id.Email, id.RemoteURL
	}
	if interactive {
		if err := promptFn(cfg); err != nil {
			return err
		}
	}
	if cfg.Name == "" {
		return fmt.Errorf("cannot infer a distribution name, pass --name")
	}

	detectLayout(cfg, root)
	cfg.ApplyDefaults()

	if err := config.SaveConfigFn(cfg, target); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Created %s for %s", target, cfg.Name))
	printer.PrintFaint(fmt.Sprintf("Version source: %s", cfg.Version.File))
	return nil
}

// detectLayout switches to a src/ layout when the package only lives there.
func detectLayout(cfg *config.Config, root string) {
	flat := filepath.Join(cfg.Name, "__init__.py")
	src := filepath.Join("src", cfg.Name, "__init__.py")
	if fileExists(filepath.Join(root, flat)) || !fileExists(filepath.Join(root, src)) {
		return
	}
	cfg.Version.File = src
	cfg.Packages.Where = "src"
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// promptMetadata asks for the descriptor metadata.
func promptMetadata(cfg *config.Config) error {
	return tui.Form("Package metadata", []tui.Field{
		{Title: "Name", Description: "Distribution and top-level package name", Required: true, Value: &cfg.Name},
		{Title: "Author", Value: &cfg.Author},
		{Title: "Author email", Value: &cfg.AuthorEmail},
		{Title: "URL", Description: "Project homepage", Value: &cfg.URL},
		{Title: "Description", Description: "One-line summary", Value: &cfg.Description},
	})
}
