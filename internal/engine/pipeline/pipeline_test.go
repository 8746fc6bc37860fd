package pipeline_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/memo/internal/adapters/telemetry"
	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/memo/internal/core/ports/mocks"
	"go.trai.ch/memo/internal/engine/pipeline"
	"go.trai.ch/memo/internal/registry"
)

// memoryStore programs a MockResultStore to behave like an in-memory
// document, so tests can assert on what a run stored and dumped.
func memoryStore(ctrl *gomock.Controller, path string) (*mocks.MockResultStore, map[string]any, *int) {
	values := map[string]any{}
	dumps := 0

	store := mocks.NewMockResultStore(ctrl)
	store.EXPECT().Get(gomock.Any()).DoAndReturn(func(name string) (any, bool) {
		v, ok := values[name]
		return v, ok
	}).AnyTimes()
	store.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(func(name string, value any) error {
		values[name] = value
		return nil
	}).AnyTimes()
	store.EXPECT().Names().DoAndReturn(func() []string {
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		slices.Sort(names)
		return names
	}).AnyTimes()
	store.EXPECT().Path().Return(path).AnyTimes()
	store.EXPECT().Dump().DoAndReturn(func() error {
		dumps++
		return nil
	}).AnyTimes()

	return store, values, &dumps
}

// singleStoreFactory hands out the same store for every repetition and
// records the paths it was asked to open.
func singleStoreFactory(ctrl *gomock.Controller, store ports.ResultStore) (*mocks.MockStoreFactory, *[]string) {
	opened := []string{}
	factory := mocks.NewMockStoreFactory(ctrl)
	factory.EXPECT().Open(gomock.Any(), gomock.Any()).DoAndReturn(
		func(path string, _ domain.Provenance) (ports.ResultStore, error) {
			opened = append(opened, path)
			return store, nil
		},
	).AnyTimes()
	return factory, &opened
}

func quietLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	log := mocks.NewMockLogger(ctrl)
	// Allow any logging.
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Critical(gomock.Any()).AnyTimes()
	return log
}

func newRegistry(t *testing.T, cmds ...registry.Command) *registry.Registry {
	t.Helper()
	reg := registry.New()
	for _, cmd := range cmds {
		require.NoError(t, reg.Register(cmd))
	}
	return reg
}

func testConfig(doc map[string]any) *domain.Config {
	return &domain.Config{
		Doc:  doc,
		Hash: "feedfacefeedface",
		Path: "/etc/memo/run.json",
	}
}

func newPipeline(
	ctrl *gomock.Controller,
	reg *registry.Registry,
	factory ports.StoreFactory,
	tracer ports.Tracer,
) *pipeline.Pipeline {
	if tracer == nil {
		tracer = telemetry.NewNoOpTracer()
	}
	return pipeline.NewPipeline(reg, factory, tracer, mocks.NewMockPlotter(ctrl), quietLogger(ctrl))
}

func TestRunComputesStoresAndDumps(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, values, dumps := memoryStore(ctrl, "out.json")

	cfg := testConfig(map[string]any{"result_file": "out.json"})

	factory := mocks.NewMockStoreFactory(ctrl)
	factory.EXPECT().Open("out.json", domain.Provenance{Hash: cfg.Hash, Path: cfg.Path}).
		Return(store, nil).Times(1)

	executed := 0
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(inv *registry.Invocation) (any, error) {
			executed++
			assert.Equal(t, 0, inv.Repetition)
			return 42, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.NoError(t, err)
	assert.Equal(t, 1, executed)
	assert.Equal(t, 42, values["sample"])
	assert.Equal(t, 1, *dumps)
}

func TestRunReusesStoredResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, values, dumps := memoryStore(ctrl, "out.json")
	values["sample"] = 7.0
	factory, _ := singleStoreFactory(ctrl, store)

	executed := 0
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(*registry.Invocation) (any, error) {
			executed++
			return 0, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.NoError(t, err)
	assert.Equal(t, 0, executed, "stored result must short-circuit the handler")
	assert.Equal(t, 7.0, values["sample"])
	assert.Equal(t, 1, *dumps)
}

func TestRunForceRecomputes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, values, _ := memoryStore(ctrl, "out.json")
	values["sample"] = 7.0
	factory, _ := singleStoreFactory(ctrl, store)

	executed := 0
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(*registry.Invocation) (any, error) {
			executed++
			return 99, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{
		Commands: []string{"sample"},
		Force:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, executed)
	assert.Equal(t, 99, values["sample"])
}

func TestRunMemoizesWithinRepetition(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, _, _ := memoryStore(ctrl, "out.json")
	factory, _ := singleStoreFactory(ctrl, store)

	executed := 0
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(*registry.Invocation) (any, error) {
			executed++
			return executed, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})

	// Force invalidates earlier runs, not results computed within this
	// repetition: the second request reuses the first execution.
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{
		Commands: []string{"sample", "sample"},
		Force:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, executed)
}

func TestRunResolvesRequires(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, values, _ := memoryStore(ctrl, "out.json")
	factory, _ := singleStoreFactory(ctrl, store)

	samples := []float64{1, 2, 3}
	sampleRuns := 0
	reg := newRegistry(t,
		registry.Command{
			Name: "sample",
			Run: func(*registry.Invocation) (any, error) {
				sampleRuns++
				return samples, nil
			},
		},
		registry.Command{
			Name:     "stats",
			Requires: []string{"sample"},
			Run: func(inv *registry.Invocation) (any, error) {
				first, err := inv.Require("sample")
				if err != nil {
					return nil, err
				}
				second, err := inv.Require("sample")
				if err != nil {
					return nil, err
				}
				assert.Equal(t, first, second)
				return len(first.([]float64)), nil
			},
		},
	)

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"stats"}})

	require.NoError(t, err)
	assert.Equal(t, 1, sampleRuns, "requirement must execute exactly once")
	assert.Equal(t, samples, values["sample"])
	assert.Equal(t, 3, values["stats"])
}

func TestRunUnknownCommandAbortsBeforeAnythingRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Open expectation: touching the store factory fails the test.
	factory := mocks.NewMockStoreFactory(ctrl)

	executed := 0
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(*registry.Invocation) (any, error) {
			executed++
			return nil, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{
		Commands: []string{"sample", "bogus"},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownCommand)
	assert.Equal(t, 0, executed)
}

func TestRunFailedCommandAbortsWithoutDump(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	errBoom := errors.New("boom")

	store, _, dumps := memoryStore(ctrl, "out.json")
	factory, _ := singleStoreFactory(ctrl, store)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, errBoom)
	}).Times(1)
	span.EXPECT().End().Times(1)

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"sample"}).Times(1)
	tracer.EXPECT().Start(gomock.Any(), "sample").DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).Times(1)

	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(*registry.Invocation) (any, error) {
			return nil, errBoom
		},
	})

	p := newPipeline(ctrl, reg, factory, tracer)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCommandFailed)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, *dumps, "a failing repetition must never be dumped")
}

func TestRunRepetitionsUseSeparateStores(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	opened := []string{}
	factory := mocks.NewMockStoreFactory(ctrl)
	factory.EXPECT().Open(gomock.Any(), gomock.Any()).DoAndReturn(
		func(path string, _ domain.Provenance) (ports.ResultStore, error) {
			opened = append(opened, path)
			store, _, _ := memoryStore(ctrl, path)
			return store, nil
		},
	).Times(3)

	seeds := []int64{}
	reps := []int{}
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(inv *registry.Invocation) (any, error) {
			seeds = append(seeds, inv.Seed)
			reps = append(reps, inv.Repetition)
			return inv.Repetition, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{
		"result_file": "run-$.json",
		"repeat":      3,
		"seed":        100,
	})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"run-0.json", "run-1.json", "run-2.json"}, opened)
	assert.Equal(t, []int64{100, 101, 102}, seeds)
	assert.Equal(t, []int{0, 1, 2}, reps)
}

func TestRunSeedPrecedence(t *testing.T) {
	cases := []struct {
		name string
		doc  map[string]any
		opt  *int64
		want int64
	}{
		{
			name: "flag wins over configuration",
			doc:  map[string]any{"result_file": "out.json", "seed": 100},
			opt:  ptr(int64(7)),
			want: 7,
		},
		{
			name: "configuration wins over default",
			doc:  map[string]any{"result_file": "out.json", "seed": 100},
			want: 100,
		},
		{
			name: "defaults to zero",
			doc:  map[string]any{"result_file": "out.json"},
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store, _, _ := memoryStore(ctrl, "out.json")
			factory, _ := singleStoreFactory(ctrl, store)

			var got int64
			reg := newRegistry(t, registry.Command{
				Name: "sample",
				Run: func(inv *registry.Invocation) (any, error) {
					got = inv.Seed
					return nil, nil
				},
			})

			p := newPipeline(ctrl, reg, factory, nil)
			err := p.Run(context.Background(), testConfig(tc.doc), pipeline.RunOptions{
				Commands: []string{"sample"},
				Seed:     tc.opt,
			})

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRunWarnsWhenRepetitionsShareOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, _, dumps := memoryStore(ctrl, "out.json")
	factory, opened := singleStoreFactory(ctrl, store)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "placeholder")
	}).Times(1)

	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(inv *registry.Invocation) (any, error) {
			return inv.Repetition, nil
		},
	})

	p := pipeline.NewPipeline(reg, factory, telemetry.NewNoOpTracer(), mocks.NewMockPlotter(ctrl), log)
	cfg := testConfig(map[string]any{"result_file": "out.json", "repeat": 2})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"out.json", "out.json"}, *opened)
	assert.Equal(t, 2, *dumps)
}

func TestRunMissingOutputPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := mocks.NewMockStoreFactory(ctrl)
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run:  func(*registry.Invocation) (any, error) { return nil, nil },
	})

	p := newPipeline(ctrl, reg, factory, nil)
	err := p.Run(context.Background(), testConfig(map[string]any{}), pipeline.RunOptions{
		Commands: []string{"sample"},
	})

	assert.ErrorIs(t, err, domain.ErrMissingOutputPath)
}

func TestRunOutputFlagOverridesConfiguration(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, _, _ := memoryStore(ctrl, "elsewhere.json")
	factory, opened := singleStoreFactory(ctrl, store)

	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run:  func(*registry.Invocation) (any, error) { return 1, nil },
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{
		Commands: []string{"sample"},
		Output:   "elsewhere.json",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"elsewhere.json"}, *opened)
}

func TestRunSetupHookRunsOncePerRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, _, _ := memoryStore(ctrl, "run-$.json")
	factory, _ := singleStoreFactory(ctrl, store)

	var events []string
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run: func(*registry.Invocation) (any, error) {
			events = append(events, "run")
			return nil, nil
		},
	})

	var settings map[string]any
	require.NoError(t, reg.OnSetup(func(_ context.Context, s map[string]any) error {
		events = append(events, "setup")
		settings = s
		return nil
	}))

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{
		"result_file": "run-$.json",
		"repeat":      2,
		"setup":       map[string]any{"alpha": 0.5},
	})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"setup", "run", "run"}, events)
	assert.Equal(t, map[string]any{"alpha": 0.5}, settings)
}

func TestRunSetupFailureAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := mocks.NewMockStoreFactory(ctrl)

	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run:  func(*registry.Invocation) (any, error) { return nil, nil },
	})
	require.NoError(t, reg.OnSetup(func(context.Context, map[string]any) error {
		return errors.New("no database")
	}))

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	assert.ErrorIs(t, err, domain.ErrSetupFailed)
}

func TestRunNilResultIsNotStored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, values, dumps := memoryStore(ctrl, "out.json")
	factory, _ := singleStoreFactory(ctrl, store)

	executed := 0
	reg := newRegistry(t, registry.Command{
		Name: "histogram",
		Run: func(*registry.Invocation) (any, error) {
			executed++
			return nil, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})

	// Listed twice: the nil result still memoizes for the repetition.
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{
		Commands: []string{"histogram", "histogram"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, executed)
	assert.Empty(t, values)
	assert.Equal(t, 1, *dumps)
}

func TestRunEmitsPlanOncePerRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, _, _ := memoryStore(ctrl, "run-$.json")
	factory, _ := singleStoreFactory(ctrl, store)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()
	span.EXPECT().End().AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().EmitPlan(gomock.Any(), []string{"sample"}).Times(1)
	tracer.EXPECT().Start(gomock.Any(), "sample").DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).Times(2)

	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run:  func(*registry.Invocation) (any, error) { return 1, nil },
	})

	p := newPipeline(ctrl, reg, factory, tracer)
	cfg := testConfig(map[string]any{"result_file": "run-$.json", "repeat": 2})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.NoError(t, err)
}

func TestRunHonorsCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	factory := mocks.NewMockStoreFactory(ctrl)
	reg := newRegistry(t, registry.Command{
		Name: "sample",
		Run:  func(*registry.Invocation) (any, error) { return nil, nil },
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{"result_file": "out.json"})
	err := p.Run(ctx, cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunScopeMergesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store, _, _ := memoryStore(ctrl, "out.json")
	factory, _ := singleStoreFactory(ctrl, store)

	var scope map[string]any
	reg := newRegistry(t, registry.Command{
		Name:     "sample",
		Defaults: map[string]any{"n": 100, "mean": 0.0},
		Run: func(inv *registry.Invocation) (any, error) {
			scope = inv.Scope
			assert.Equal(t, 500, inv.Int("n", 0))
			assert.Equal(t, 0.0, inv.Float("mean", -1))
			return nil, nil
		},
	})

	p := newPipeline(ctrl, reg, factory, nil)
	cfg := testConfig(map[string]any{
		"result_file": "out.json",
		"sample":      map[string]any{"n": 500},
	})
	err := p.Run(context.Background(), cfg, pipeline.RunOptions{Commands: []string{"sample"}})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 500, "mean": 0.0}, scope)
}

func ptr[T any](v T) *T {
	return &v
}
