// Package experiment ties a run file to the simulator, the run store and the
// catalog.
package experiment

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/catalog"
	"github.com/san-kum/traysim/internal/config"
	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/sim"
	"github.com/san-kum/traysim/internal/storage"
)

type Runner struct {
	store    *storage.Store
	catalog  *catalog.Catalog
	registry *Registry
	log      *zap.Logger
	metrics  []string
}

type Option func(*Runner)

// WithCatalog indexes every stored run.
func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Runner) { r.catalog = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// WithMetrics restricts the metrics computed for each run. Unknown names
// fail the run.
func WithMetrics(names ...string) Option {
	return func(r *Runner) { r.metrics = names }
}

func NewRunner(store *storage.Store, opts ...Option) *Runner {
	r := &Runner{
		store:    store,
		registry: NewRegistry(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Simulator builds a simulator wired with the runner's logger and metrics.
func (r *Runner) Simulator(gravity float64) (*sim.Simulator, error) {
	names := r.metrics
	if len(names) == 0 {
		names = r.registry.ListMetrics()
	}
	ms, err := r.registry.Metrics(names, gravity)
	if err != nil {
		return nil, err
	}
	return sim.New(
		sim.WithLogger(r.log),
		sim.WithMetrics(ms...),
		sim.WithObservers(sim.LogObserver{Log: r.log}),
	), nil
}

// Simulate runs cfg without storing it.
func (r *Runner) Simulate(ctx context.Context, cfg *config.Config) (*dynamo.Result, error) {
	s, err := r.Simulator(cfg.Params.Gravity)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, cfg.Params, cfg.Solver)
}

// Run simulates cfg, stores the trajectory and indexes it.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*storage.RunMetadata, *dynamo.Result, error) {
	res, err := r.Simulate(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	meta, err := r.Store(ctx, cfg.Name, res)
	if err != nil {
		return nil, nil, err
	}
	return meta, res, nil
}

// Store persists an already computed result.
func (r *Runner) Store(ctx context.Context, name string, res *dynamo.Result) (*storage.RunMetadata, error) {
	if err := r.store.Init(); err != nil {
		return nil, err
	}
	meta, err := r.store.Save(name, res)
	if err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	if r.catalog != nil {
		if err := r.catalog.Insert(ctx, meta); err != nil {
			return nil, fmt.Errorf("catalog run %s: %w", meta.ID, err)
		}
	}

	r.log.Info("run stored",
		zap.String("id", meta.ID),
		zap.String("name", name),
		zap.Int("collisions", len(res.Collisions)),
		zap.Stringer("final", res.Final),
	)
	return meta, nil
}
