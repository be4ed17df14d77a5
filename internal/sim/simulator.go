package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/physics"
)

type Simulator struct {
	log       *zap.Logger
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

type Option func(*Simulator)

func WithLogger(log *zap.Logger) Option {
	return func(s *Simulator) {
		if log != nil {
			s.log = log
		}
	}
}

func WithMetrics(ms ...dynamo.Metric) Option {
	return func(s *Simulator) { s.metrics = append(s.metrics, ms...) }
}

func WithObservers(obs ...dynamo.Observer) Option {
	return func(s *Simulator) { s.observers = append(s.observers, obs...) }
}

func New(opts ...Option) *Simulator {
	s := &Simulator{
		log:       zap.NewNop(),
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Simulate runs p with the default solver settings.
func Simulate(p dynamo.Params) (*dynamo.Result, error) {
	return New().Run(context.Background(), p, dynamo.DefaultSolverConfig())
}

// Run integrates one trajectory over [0, p.Duration]. The returned arrays all
// have the grid length chosen by the step selector. On failure the error is a
// *dynamo.SimulationError unless the input itself was rejected.
func (s *Simulator) Run(ctx context.Context, p dynamo.Params, cfg dynamo.SolverConfig) (*dynamo.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid solver config: %w", err)
	}

	r := newRun(p, cfg, s.log, s.observers)
	n := r.grid.Len()

	s.log.Debug("run start",
		zap.Float64("omega", p.Omega),
		zap.Float64("amplitude", p.Amplitude),
		zap.Float64("dt", r.dt),
		zap.Int("samples", n),
		zap.Bool("separation_possible", r.sep.Possible),
		zap.Stringer("regime", r.regime),
	)

	for i := 1; i < n && r.regime != dynamo.Adhered; i++ {
		select {
		case <-ctx.Done():
			return nil, &dynamo.SimulationError{
				Step:    i,
				Time:    r.grid.At(i - 1),
				Params:  p,
				Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()),
			}
		default:
		}

		if err := r.step(i); err != nil {
			s.log.Error("run failed", zap.Error(err))
			return nil, err
		}
	}

	result := s.collect(r)

	s.log.Debug("run done",
		zap.Int("collisions", len(result.Collisions)),
		zap.Stringer("final", result.Final),
		zap.Int("adhered_at", result.AdheredAt),
	)
	return result, nil
}

func (s *Simulator) collect(r *run) *dynamo.Result {
	n := r.grid.Len()
	tray := make([]float64, n)
	for k, t := range r.grid.NominalTimes() {
		tray[k] = physics.TrayPosition(r.p.Omega, t, r.p.Amplitude)
	}

	result := &dynamo.Result{
		Params:     r.p,
		Solver:     r.cfg,
		Dt:         r.dt,
		Reference:  r.grid.NominalTimes(),
		TrayHeight: tray,
		Times:      r.grid.WorkingTimes(),
		Height:     r.y,
		Velocity:   r.v,
		Regimes:    r.regimes,
		Collisions: r.collisions,
		Final:      r.regime,
		AdheredAt:  r.adheredAt,
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	for i := 0; i < result.Len(); i++ {
		sample := result.Sample(i)
		for _, m := range s.metrics {
			m.Observe(sample)
		}
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result
}
