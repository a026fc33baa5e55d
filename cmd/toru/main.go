// Package main is the entry point for the toru CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/runoshun/toru/internal/app"
	"github.com/runoshun/toru/internal/cli"
	"github.com/runoshun/toru/internal/infra/config"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configDir, err := config.DefaultDir()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Create dependency injection container
	container := app.New(configDir)
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.ExecuteContext(ctx)
}
