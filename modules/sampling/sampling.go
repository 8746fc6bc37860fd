// Package sampling is the built-in command pack: it draws normal variates,
// summarizes them and renders a histogram, exercising the whole caching,
// requirement and plotting surface.
package sampling

import (
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"go.trai.ch/zerr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/registry"
)

// Module returns the sampling command pack.
func Module() registry.Module {
	return module{}
}

type module struct{}

func (module) Register(r *registry.Registry) error {
	commands := []registry.Command{
		{
			Name:     "sample",
			Help:     "Draw normally distributed variates",
			Defaults: map[string]any{"n": 1000, "mean": 0.0, "stddev": 1.0},
			Run:      runSample,
		},
		{
			Name:     "summarize",
			Help:     "Compute summary statistics over the sample",
			Requires: []string{"sample"},
			Run:      runSummarize,
		},
		{
			Name:     "histogram",
			Help:     "Bin the sample and plot the counts",
			Defaults: map[string]any{"bins": 20},
			Requires: []string{"sample"},
			Run:      runHistogram,
		},
	}

	for _, cmd := range commands {
		if err := r.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

func runSample(inv *registry.Invocation) (any, error) {
	n := inv.Int("n", 1000)
	if n < 0 {
		return nil, zerr.With(zerr.New("sample size must not be negative"), "n", n)
	}
	mean := inv.Float("mean", 0)
	stddev := inv.Float("stddev", 1)

	//nolint:gosec // deterministic sampling is the point, not security
	rng := rand.New(rand.NewPCG(uint64(inv.Seed), 0))
	values := make([]float64, n)
	for i := range values {
		values[i] = mean + stddev*rng.NormFloat64()
	}
	return domain.FromFloat64s(values), nil
}

func runSummarize(inv *registry.Invocation) (any, error) {
	samples, err := requireSample(inv)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, zerr.New("cannot summarize an empty sample")
	}

	mean, stddev := stat.MeanStdDev(samples, nil)
	return map[string]any{
		"n":      len(samples),
		"mean":   mean,
		"stddev": stddev,
		"min":    floats.Min(samples),
		"max":    floats.Max(samples),
	}, nil
}

func runHistogram(inv *registry.Invocation) (any, error) {
	samples, err := requireSample(inv)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, zerr.New("cannot build a histogram from an empty sample")
	}

	bins := inv.Int("bins", 20)
	if bins < 1 {
		return nil, zerr.With(zerr.New("bins must be positive"), "bins", bins)
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	// The upper divider is nudged past the maximum so the largest sample
	// still falls inside the last bin.
	dividers := make([]float64, bins+1)
	floats.Span(dividers, sorted[0], math.Nextafter(sorted[len(sorted)-1], math.Inf(1)))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	if err := inv.Plotter.Plot(inv.Context, "histogram", domain.FromFloat64s(counts)); err != nil {
		return nil, err
	}

	// The figure is the result; nothing is worth persisting.
	return nil, nil
}

func requireSample(inv *registry.Invocation) ([]float64, error) {
	value, err := inv.Require("sample")
	if err != nil {
		return nil, err
	}
	arr, ok := value.(*domain.Array)
	if !ok {
		return nil, zerr.With(zerr.New("sample did not produce an array"), "type", fmt.Sprintf("%T", value))
	}
	return arr.Float64s()
}
