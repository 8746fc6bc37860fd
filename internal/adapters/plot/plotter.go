// Package plot provides the plotter commands use to render figures.
package plot

import (
	"context"
	"fmt"

	"go.trai.ch/memo/internal/codec"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// LogPlotter implements ports.Plotter by describing the figure in the log
// stream.
type LogPlotter struct {
	log ports.Logger
}

// NewLogPlotter creates a plotter that writes figure summaries to the log.
func NewLogPlotter(log ports.Logger) *LogPlotter {
	return &LogPlotter{log: log}
}

// Plot renders a named figure from a numeric array.
func (p *LogPlotter) Plot(_ context.Context, name string, values *domain.Array) error {
	if values == nil || values.Len() == 0 {
		p.log.Debug(fmt.Sprintf("plot %s: nothing to draw", name))
		return nil
	}
	p.log.Info(fmt.Sprintf("plot %s: %v", name, codec.EncodeDisplay(values)))
	return nil
}
