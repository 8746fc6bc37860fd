// Package app implements the application layer for memo.
package app

import (
	"context"
	"fmt"
	"time"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.trai.ch/memo/internal/adapters/watcher"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/engine/pipeline"
)

// App represents the main application logic.
type App struct {
	loader   ports.ConfigLoader
	pipeline *pipeline.Pipeline
	watcher  ports.Watcher
	logger   ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, pipe *pipeline.Pipeline, watch ports.Watcher, log ports.Logger) *App {
	return &App{
		loader:   loader,
		pipeline: pipe,
		watcher:  watch,
		logger:   log,
	}
}

// Run loads the configuration at path and executes the requested commands
// against it.
func (a *App) Run(ctx context.Context, path string, opts pipeline.RunOptions) error {
	cfg, err := a.loader.Load(path)
	if err != nil {
		return err
	}
	return a.pipeline.Run(ctx, cfg, opts)
}

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	// Run is applied to every execution the watch loop performs.
	Run pipeline.RunOptions
	// Debounce is how long to wait after the last change before rerunning.
	// Zero selects the default window.
	Debounce time.Duration
}

// Watch runs once, then reruns whenever the configuration file changes. Every
// rerun reloads the configuration, so an edit invalidates stored results
// through the hash. A failed run is logged and watching continues; only
// context cancellation ends the loop.
func (a *App) Watch(ctx context.Context, path string, opts WatchOptions) error {
	window := opts.Debounce
	if window <= 0 {
		window = watcher.DefaultDebounceWindow
	}

	g, ctx := errgroup.WithContext(ctx)

	if err := a.watcher.Start(ctx, path); err != nil {
		return zerr.Wrap(err, "failed to start watching")
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	// The buffer of one coalesces change signals that arrive while a run is
	// still executing into a single rerun.
	runs := make(chan struct{}, 1)
	runs <- struct{}{}

	debounce := watcher.NewDebouncer(window, func() {
		a.logger.Info("configuration changed, rerunning")
		select {
		case runs <- struct{}{}:
		default:
		}
	})

	g.Go(func() error {
		for event := range a.watcher.Events() {
			a.logger.Debug(fmt.Sprintf("configuration event: %s", event.Path))
			debounce.Add()
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-runs:
				if err := a.Run(ctx, path, opts.Run); err != nil {
					a.logger.Error(err)
				}
			}
		}
	})

	return g.Wait()
}
