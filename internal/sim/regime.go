package sim

import (
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/physics"
	"github.com/san-kum/traysim/internal/solver"
)

// run is the private state of one simulation. It owns every slice it
// touches until the result is handed back.
type run struct {
	p   dynamo.Params
	cfg dynamo.SolverConfig
	dt  float64

	grid    *Grid
	y, v    []float64
	regimes []dynamo.Regime

	sep     physics.Separation
	nextSep float64

	regime     dynamo.Regime
	collisions []int
	adheredAt  int

	root      *solver.Bisection
	log       *zap.Logger
	observers []dynamo.Observer
}

func newRun(p dynamo.Params, cfg dynamo.SolverConfig, log *zap.Logger, observers []dynamo.Observer) *run {
	dt := physics.StepSize(p.Omega, cfg.Resolution)
	n := physics.GridLength(p.Duration, dt)

	r := &run{
		p:          p,
		cfg:        cfg,
		dt:         dt,
		grid:       NewGrid(dt, n),
		y:          make([]float64, n),
		v:          make([]float64, n),
		regimes:    make([]dynamo.Regime, n),
		sep:        physics.PredictSeparation(p.Omega, p.Amplitude, p.Gravity),
		collisions: make([]int, 0),
		adheredAt:  -1,
		root:       solver.NewBisection(cfg),
		log:        log,
		observers:  observers,
	}

	r.y[0], r.v[0] = p.Height, p.Velocity
	if r.above(0) {
		r.regime = dynamo.Free
	} else {
		r.regime = dynamo.Contact
	}
	r.regimes[0] = r.regime
	return r
}

func (r *run) tray(t float64) float64    { return physics.TrayPosition(r.p.Omega, t, r.p.Amplitude) }
func (r *run) trayVel(t float64) float64 { return physics.TrayVelocity(r.p.Omega, t, r.p.Amplitude) }

func (r *run) gap(k int) float64 { return r.y[k] - r.tray(r.grid.At(k)) }

func (r *run) above(k int) bool { return r.gap(k) > r.cfg.ContactTolerance }

// onTray compares against heights that were copied from tray kinematics, so
// with a zero tolerance the comparison is exact.
func (r *run) onTray(k int) bool {
	if r.cfg.ContactTolerance == 0 {
		return r.gap(k) == 0
	}
	return math.Abs(r.gap(k)) <= r.cfg.ContactTolerance
}

// leaves reports whether a ball at (y, v) on the tray at t is still above it
// after the look-ahead horizon.
func (r *run) leaves(y, v, t float64) bool {
	h := r.cfg.LookAhead
	return physics.BallPosition(h, v, y, r.p.Gravity) >= r.tray(t+h)
}

// step classifies the regime from the last processed samples and fills
// index i.
func (r *run) step(i int) error {
	switch {
	case r.above(i - 1):
		r.fly(i, r.dt)
		return nil
	case i == 1 && r.onTray(0):
		return r.land(i, r.grid.At(0), r.dt)
	case i >= 2 && r.onTray(i-1) && r.onTray(i-2):
		return r.contact(i)
	default:
		return r.collide(i)
	}
}

// fly advances the state at i-1 by elapsed seconds of free flight.
func (r *run) fly(i int, elapsed float64) {
	r.y[i] = physics.BallPosition(elapsed, r.v[i-1], r.y[i-1], r.p.Gravity)
	r.v[i] = physics.BallVelocity(elapsed, r.v[i-1], r.p.Gravity)
	r.regimes[i] = dynamo.Free
}

// ride puts the ball on the tray at index k and instant t.
func (r *run) ride(k int, t float64) {
	r.y[k] = r.tray(t)
	r.v[k] = r.trayVel(t)
	r.regimes[k] = dynamo.Contact
}

func (r *run) contact(i int) error {
	t := r.grid.At(i)
	if !r.sep.Possible || t <= r.nextSep {
		r.ride(i, t)
		return nil
	}

	ts := r.nextSep
	if err := r.grid.SpliceInstant(i-1, ts); err != nil {
		return r.fault(i, err)
	}
	r.ride(i-1, ts)

	if !r.leaves(r.y[i-1], r.v[i-1], ts) {
		r.ride(i, t)
		r.nextSep = physics.AdvanceSeparation(r.p.Omega, t, r.sep.FirstTime)
		return nil
	}

	r.fly(i, t-ts)
	r.enter(dynamo.Free, i-1, ts)
	return nil
}

func (r *run) collide(i int) error {
	if i < 2 {
		return r.fault(i, dynamo.ErrInvalidBracket)
	}

	// A bracket starting on the tray means the ball went straight back into
	// it: there is no impact to resolve, the ball is put back on the tray.
	if r.onTray(i - 2) {
		t := r.grid.At(i - 1)
		r.ride(i-1, t)
		r.enter(dynamo.Contact, i-1, t)
		return r.land(i, t, r.grid.At(i)-t)
	}

	lo, hi := r.grid.At(i-2), r.grid.At(i-1)
	y0, v0 := r.y[i-2], r.v[i-2]
	f := func(x float64) float64 {
		return physics.BallPosition(x-lo, v0, y0, r.p.Gravity) - r.tray(x)
	}

	tc, iters, err := r.root.Find(f, lo, hi)
	if err != nil {
		return r.fault(i, err)
	}
	if err := r.grid.SpliceInstant(i-1, tc); err != nil {
		return r.fault(i, err)
	}
	// an impact landing exactly on a grid sample leaves nothing spliced and
	// is not logged
	if r.grid.Spliced(i - 1) {
		r.collisions = append(r.collisions, i-1)
	}

	vPre := physics.BallVelocity(tc-lo, v0, r.p.Gravity)
	vTray := r.trayVel(tc)
	r.y[i-1] = r.tray(tc)
	r.v[i-1] = physics.Restitute(vPre, vTray, r.p.Restitution)
	r.regimes[i-1] = dynamo.Contact

	r.log.Debug("collision",
		zap.Int("index", i-1),
		zap.Float64("t", tc),
		zap.Int("iterations", iters),
		zap.Float64("v_pre", vPre),
		zap.Float64("v_post", r.v[i-1]),
		zap.Float64("v_tray", vTray),
	)

	// resume the fixed cadence measured from the pre-impact sample
	return r.land(i, tc, 2*r.dt-(tc-lo))
}

// land decides the fate of a ball that touched the tray at t0, with its
// contact state stored at i-1. elapsed is the free-flight time to index i
// should the ball leave again.
func (r *run) land(i int, t0, elapsed float64) error {
	if r.leaves(r.y[i-1], r.v[i-1], t0) {
		r.fly(i, elapsed)
		r.enter(dynamo.Free, i-1, t0)
		return nil
	}

	if !r.sep.Possible {
		r.adhere(i)
		return nil
	}

	r.nextSep = physics.AdvanceSeparation(r.p.Omega, t0, r.sep.FirstTime)
	t := r.grid.At(i)
	if t > r.nextSep {
		if err := r.grid.SpliceInstant(i, r.nextSep); err != nil {
			return r.fault(i, err)
		}
		t = r.nextSep
	}
	r.ride(i, t)
	r.enter(dynamo.Contact, i-1, t0)
	return nil
}

// adhere fills the rest of the grid with tray kinematics and ends the run.
func (r *run) adhere(i int) {
	for k := i; k < r.grid.Len(); k++ {
		r.ride(k, r.grid.At(k))
		r.regimes[k] = dynamo.Adhered
	}
	r.adheredAt = i
	r.enter(dynamo.Adhered, i, r.grid.At(i))
}

func (r *run) enter(to dynamo.Regime, index int, t float64) {
	if to == r.regime {
		return
	}
	from := r.regime
	r.regime = to
	for _, o := range r.observers {
		o.OnTransition(from, to, index, t)
	}
}

func (r *run) fault(i int, err error) error {
	return &dynamo.SimulationError{
		Step:    i,
		Time:    r.grid.At(i),
		Params:  r.p,
		Wrapped: err,
	}
}
