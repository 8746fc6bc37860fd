// Package pipeline implements the memoizing command executor.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/registry"
)

// Pipeline executes commands against a configuration, reusing stored results
// as long as the configuration hash still matches.
type Pipeline struct {
	registry *registry.Registry
	stores   ports.StoreFactory
	tracer   ports.Tracer
	plotter  ports.Plotter
	log      ports.Logger
	out      io.Writer
}

// NewPipeline creates a pipeline. The built-in show command writes to
// os.Stdout unless SetOutput redirects it.
func NewPipeline(
	reg *registry.Registry,
	stores ports.StoreFactory,
	tracer ports.Tracer,
	plotter ports.Plotter,
	log ports.Logger,
) *Pipeline {
	return &Pipeline{
		registry: reg,
		stores:   stores,
		tracer:   tracer,
		plotter:  plotter,
		log:      log,
		out:      os.Stdout,
	}
}

// SetOutput redirects the output of the built-in show command.
func (p *Pipeline) SetOutput(w io.Writer) {
	p.out = w
}

// RunOptions select what a run executes and where its results go.
type RunOptions struct {
	// Commands are executed in the order given.
	Commands []string
	// Force ignores results stored by earlier runs.
	Force bool
	// Output overrides the configured result file path.
	Output string
	// Repeat overrides the configured repetition count when positive.
	Repeat int
	// Seed overrides the configured base seed.
	Seed *int64
}

// Run executes the requested commands and dumps the result store. With a
// repetition count above one the whole sequence runs once per repetition,
// each against its own store. A failed command aborts the run; the failing
// repetition's store is never dumped.
func (p *Pipeline) Run(ctx context.Context, cfg *domain.Config, opts RunOptions) error {
	if len(opts.Commands) == 0 {
		return zerr.New("no commands requested")
	}

	// An unknown command aborts the run before anything executes or writes.
	for _, name := range opts.Commands {
		if name == domain.ShowCommandName {
			continue
		}
		if _, err := p.registry.Lookup(name); err != nil {
			return err
		}
	}

	output, ok := resolveOutput(cfg, opts)
	if !ok {
		return zerr.With(domain.ErrMissingOutputPath, "config", cfg.Path)
	}

	repeat := cfg.Repeat()
	if opts.Repeat > 0 {
		repeat = opts.Repeat
	}

	baseSeed := int64(0)
	if s, ok := cfg.Seed(); ok {
		baseSeed = s
	}
	if opts.Seed != nil {
		baseSeed = *opts.Seed
	}

	settings, _ := cfg.Setup()
	if err := p.registry.Setup(ctx, settings); err != nil {
		return err
	}

	p.tracer.EmitPlan(ctx, opts.Commands)

	if repeat > 1 && !domain.HasRepetitionPlaceholder(output) {
		p.log.Warn(fmt.Sprintf(
			"result file %s has no %s placeholder, repetitions will overwrite it",
			output, domain.RepetitionPlaceholder,
		))
	}

	for rep := range repeat {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runRepetition(ctx, cfg, opts, output, rep, baseSeed); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) runRepetition(
	ctx context.Context,
	cfg *domain.Config,
	opts RunOptions,
	output string,
	rep int,
	baseSeed int64,
) error {
	path := domain.ExpandRepetition(output, rep)

	store, err := p.stores.Open(path, domain.Provenance{Hash: cfg.Hash, Path: cfg.Path})
	if err != nil {
		return err
	}

	state := &runState{
		pipeline: p,
		ctx:      ctx,
		cfg:      cfg,
		store:    store,
		force:    opts.Force,
		rep:      rep,
		seed:     baseSeed + int64(rep),
		statuses: map[string]domain.CommandStatus{},
		results:  map[string]any{},
	}

	for _, name := range opts.Commands {
		if _, err := state.run(name); err != nil {
			return err
		}
	}

	return store.Dump()
}

func resolveOutput(cfg *domain.Config, opts RunOptions) (string, bool) {
	if opts.Output != "" {
		return opts.Output, true
	}
	return cfg.ResultFile()
}

// runState tracks one repetition: command statuses and the results computed
// or reused so far. Commands run sequentially, so plain maps suffice.
type runState struct {
	pipeline *Pipeline
	ctx      context.Context
	cfg      *domain.Config
	store    ports.ResultStore
	force    bool
	rep      int
	seed     int64
	statuses map[string]domain.CommandStatus
	results  map[string]any
}

// run executes one command and memoizes its result for the rest of the
// repetition. A command that already ran this repetition is returned as-is,
// even under force: force invalidates earlier runs, not the current one.
func (s *runState) run(name string) (any, error) {
	if s.statuses[name].IsTerminal() {
		return s.results[name], nil
	}
	s.statuses[name] = domain.StatusRunning

	started := time.Now()
	ctx, span := s.pipeline.tracer.Start(s.ctx, name)
	defer span.End()
	defer func() {
		span.SetAttribute("memo.duration_ms", time.Since(started).Milliseconds())
	}()
	span.SetAttribute("memo.repetition", s.rep)

	value, err := s.execute(ctx, span, name)
	if err != nil {
		s.statuses[name] = domain.StatusFailed
		span.RecordError(err)
		return nil, err
	}
	return value, nil
}

func (s *runState) execute(ctx context.Context, span ports.Span, name string) (any, error) {
	if name == domain.ShowCommandName {
		if err := s.pipeline.show(s.cfg, s.store); err != nil {
			return nil, err
		}
		s.finish(name, nil, domain.StatusComputed)
		span.SetAttribute("memo.cached", false)
		return nil, nil
	}

	if !s.force {
		if value, ok := s.store.Get(name); ok {
			s.finish(name, value, domain.StatusCached)
			span.SetAttribute("memo.cached", true)
			s.pipeline.log.Info(fmt.Sprintf("%s: using stored result", name))
			return value, nil
		}
	}

	cmd, err := s.pipeline.registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	scope, err := s.cfg.MergedScope(name, cmd.Defaults)
	if err != nil {
		return nil, zerr.With(err, "command", name)
	}

	// Required commands run first. Their spans nest under the requesting
	// command's span.
	for _, dep := range cmd.Requires {
		if _, err := s.run(dep); err != nil {
			return nil, err
		}
	}

	inv := &registry.Invocation{
		Context:    ctx,
		Name:       name,
		Repetition: s.rep,
		Seed:       s.seed,
		Scope:      scope,
		Log:        s.pipeline.log,
		Plotter:    s.pipeline.plotter,
		Out:        span,
		Require:    s.run,
	}

	s.pipeline.log.Info(fmt.Sprintf("%s: computing", name))
	value, err := cmd.Run(inv)
	if err != nil {
		err = zerr.With(errors.Join(domain.ErrCommandFailed, err), "command", name)
		s.pipeline.log.Critical(err)
		return nil, err
	}

	// Nil results are elided: nothing is stored, but the command still
	// counts as computed for this repetition.
	if value != nil {
		if err := s.store.Put(name, value); err != nil {
			return nil, zerr.With(err, "command", name)
		}
	}

	s.finish(name, value, domain.StatusComputed)
	span.SetAttribute("memo.cached", false)
	return value, nil
}

func (s *runState) finish(name string, value any, status domain.CommandStatus) {
	s.statuses[name] = status
	s.results[name] = value
}
