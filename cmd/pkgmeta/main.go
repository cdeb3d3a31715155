package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/indaco/pkgmeta/internal/cli"
	"github.com/indaco/pkgmeta/internal/config"
	"github.com/indaco/pkgmeta/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}

// runCLI builds the root command and runs it with args.
func runCLI(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.New(&config.Config{}).Run(ctx, args)
}
