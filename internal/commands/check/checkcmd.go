package check

import (
	"context"
	"fmt"

	"github.com/indaco/pkgmeta/internal/config"
	"github.com/indaco/pkgmeta/internal/core"
	"github.com/indaco/pkgmeta/internal/printer"
	"github.com/urfave/cli/v3"
)

// Run returns the "check" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Aliases:   []string{"doctor"},
		Usage:     "Validate the configuration and the version source",
		UsageText: "pkgmeta check [--quiet]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only print failures and the summary",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCheckCmd(ctx, cmd, cfg)
		},
	}
}

// runCheckCmd prints every validation result and fails when any check errored.
func runCheckCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	results, err := config.NewValidator(core.NewOSFileSystem(), cfg).Validate(ctx)
	if err != nil {
		return fmt.Errorf("validation aborted: %w", err)
	}

	quiet := cmd.Bool("quiet")
	for _, r := range results {
		printResult(r, quiet)
	}

	errs := config.ErrorCount(results)
	warns := config.WarningCount(results)
	summary := fmt.Sprintf("%d check(s), %d error(s), %d warning(s)", len(results), errs, warns)

	if config.HasErrors(results) {
		return fmt.Errorf("configuration failed validation: %s", summary)
	}
	printer.PrintSuccess(summary)
	return nil
}

func printResult(r config.ValidationResult, quiet bool) {
	line := fmt.Sprintf("[%s] %s", r.Category, r.Message)
	switch {
	case r.Passed:
		if !quiet {
			fmt.Println(printer.Success("✓ ") + line)
		}
	case r.Warning:
		fmt.Println(printer.Warning("! ") + line)
	default:
		fmt.Println(printer.Error("✗ ") + line)
	}
}
