// Package main is the entry point for the memo pipeline runner.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"go.trai.ch/memo/cmd/memo/commands"
	"go.trai.ch/memo/internal/app"
	"go.trai.ch/memo/internal/core/domain"
	_ "go.trai.ch/memo/internal/wiring"
	"go.trai.ch/memo/modules/sampling"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, err
	}))
}

func run(ctx context.Context, args []string, stderr io.Writer, provider ComponentProvider) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}

	// 2. Install the built-in command pack
	if err := components.Registry.Install(sampling.Module()); err != nil {
		components.Logger.Critical(err)
		return 1
	}

	// 3. Interface - CLI
	cli := commands.New(components)
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		switch {
		case errors.Is(err, context.Canceled):
			// An interrupted watch is a normal exit.
			return 0
		case errors.Is(err, domain.ErrCommandFailed):
			// The pipeline already reported the failure at critical severity.
			return 1
		case errors.Is(err, domain.ErrConfigUnreadable),
			errors.Is(err, domain.ErrConfigMalformed),
			errors.Is(err, domain.ErrUnknownCommand),
			errors.Is(err, domain.ErrMissingOutputPath):
			components.Logger.Critical(err)
			return 1
		default:
			components.Logger.Error(err)
			return 1
		}
	}
	return 0
}
