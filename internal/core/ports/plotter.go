package ports

import (
	"context"

	"go.trai.ch/memo/internal/core/domain"
)

// Plotter renders figures for commands that produce visual output. What a
// plotter draws is never written to the result store; commands that only
// plot return nil.
//
//go:generate mockgen -source=plotter.go -destination=mocks/mock_plotter.go -package=mocks
type Plotter interface {
	// Plot renders a named figure from a numeric array.
	Plot(ctx context.Context, name string, values *domain.Array) error
}
