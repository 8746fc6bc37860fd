// Package registry holds the read-only command table a run executes from.
package registry

import (
	"context"
	"errors"
	"slices"

	"go.trai.ch/zerr"

	"go.trai.ch/memo/internal/core/domain"
)

// SetupFunc receives the configuration's setup mapping once per run, before
// the first repetition.
type SetupFunc func(ctx context.Context, settings map[string]any) error

// Module is a pack of commands that installs itself into a registry.
type Module interface {
	Register(r *Registry) error
}

// Registry maps command names to their handlers. It is populated during
// startup and read-only afterwards.
type Registry struct {
	commands map[domain.CommandName]Command
	setup    SetupFunc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		commands: make(map[domain.CommandName]Command),
	}
}

// Register adds a command. Registering a name twice, or claiming the
// reserved show command, is an error.
func (r *Registry) Register(cmd Command) error {
	if cmd.Name == "" {
		return zerr.New("command name must not be empty")
	}
	if cmd.Run == nil {
		return zerr.With(zerr.New("command has no handler"), "command", cmd.Name)
	}
	if cmd.Name == domain.ShowCommandName {
		return zerr.With(domain.ErrReservedCommandName, "command", cmd.Name)
	}

	key := domain.NewCommandName(cmd.Name)
	if _, exists := r.commands[key]; exists {
		return zerr.With(domain.ErrDuplicateCommand, "command", cmd.Name)
	}
	r.commands[key] = cmd
	return nil
}

// Install registers every module's commands.
func (r *Registry) Install(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// Lookup resolves a command by name.
func (r *Registry) Lookup(name string) (Command, error) {
	cmd, ok := r.commands[domain.NewCommandName(name)]
	if !ok {
		return Command{}, zerr.With(domain.ErrUnknownCommand, "command", name)
	}
	return cmd, nil
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for key := range r.commands {
		names = append(names, key.String())
	}
	slices.Sort(names)
	return names
}

// OnSetup installs the hook that receives the configuration's setup mapping.
// Only one hook may exist per registry.
func (r *Registry) OnSetup(fn SetupFunc) error {
	if r.setup != nil {
		return zerr.New("a setup hook is already installed")
	}
	r.setup = fn
	return nil
}

// Setup invokes the setup hook, when one is installed.
func (r *Registry) Setup(ctx context.Context, settings map[string]any) error {
	if r.setup == nil {
		return nil
	}
	if err := r.setup(ctx, settings); err != nil {
		return errors.Join(domain.ErrSetupFailed, err)
	}
	return nil
}
