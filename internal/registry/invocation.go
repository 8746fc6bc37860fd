package registry

import (
	"context"
	"io"
	"math"

	"go.trai.ch/memo/internal/core/ports"
)

// Handler executes a command. The returned value is written to the result
// store unless it is nil.
type Handler func(inv *Invocation) (any, error)

// Command couples a handler with its registration metadata.
type Command struct {
	// Name is the key the command is requested and stored under.
	Name string
	// Help is a one line description shown in listings.
	Help string
	// Defaults are merged under the command's configuration scope.
	Defaults map[string]any
	// Requires names commands whose results this one consumes.
	Requires []string
	// Run is the handler.
	Run Handler
}

// Invocation is everything a running command may touch. One value is built
// per command execution.
type Invocation struct {
	// Context carries cancellation for the run.
	Context context.Context
	// Name is the command being executed.
	Name string
	// Repetition is the zero-based repetition index.
	Repetition int
	// Seed is the deterministic seed for this command execution.
	Seed int64
	// Scope is the command's configuration scope merged over its defaults.
	Scope map[string]any
	// Log is the run's logger.
	Log ports.Logger
	// Plotter renders figures.
	Plotter ports.Plotter
	// Out streams progress into the command's span.
	Out io.Writer
	// Require returns the result of another command, computing it first when
	// needed.
	Require func(name string) (any, error)
}

// Int reads an integer scope value. JSON documents deliver numbers as
// float64, YAML as int; both forms are accepted.
func (inv *Invocation) Int(key string, fallback int) int {
	switch n := inv.Scope[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if n != math.Trunc(n) {
			return fallback
		}
		return int(n)
	default:
		return fallback
	}
}

// Float reads a floating point scope value.
func (inv *Invocation) Float(key string, fallback float64) float64 {
	switch n := inv.Scope[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return fallback
	}
}

// String reads a string scope value.
func (inv *Invocation) String(key, fallback string) string {
	if s, ok := inv.Scope[key].(string); ok {
		return s
	}
	return fallback
}

// Bool reads a boolean scope value.
func (inv *Invocation) Bool(key string, fallback bool) bool {
	if b, ok := inv.Scope[key].(bool); ok {
		return b
	}
	return fallback
}
