package automation

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/traysim/internal/analysis"
	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/sim"
)

// FrequencySweep varies the tray frequency over [OmegaMin, OmegaMax] in
// NumSteps evenly spaced runs, keeping every other parameter of Base.
type FrequencySweep struct {
	Base      dynamo.Params
	Solver    dynamo.SolverConfig
	OmegaMin  float64
	OmegaMax  float64
	NumSteps  int
	Transient float64
}

type SweepResult struct {
	Omegas  []float64
	Results []*dynamo.Result
	Diagram []analysis.BifurcationPoint
}

func (s *FrequencySweep) Omegas() ([]float64, error) {
	if s.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", dynamo.ErrParameterBounds)
	}
	if s.OmegaMin < 0 || s.OmegaMax < s.OmegaMin {
		return nil, fmt.Errorf("%w: bad omega range [%g, %g]", dynamo.ErrParameterBounds, s.OmegaMin, s.OmegaMax)
	}
	if s.NumSteps == 1 {
		return []float64{s.OmegaMin}, nil
	}
	step := (s.OmegaMax - s.OmegaMin) / float64(s.NumSteps-1)
	out := make([]float64, s.NumSteps)
	for i := range out {
		out[i] = s.OmegaMin + float64(i)*step
	}
	return out, nil
}

// RunSweep runs every frequency on the ensemble and builds the impact phase
// diagram from impacts after the transient.
func RunSweep(ctx context.Context, sweep *FrequencySweep, ens *sim.Ensemble) (*SweepResult, error) {
	omegas, err := sweep.Omegas()
	if err != nil {
		return nil, err
	}

	params := make([]dynamo.Params, len(omegas))
	for i, w := range omegas {
		params[i] = sweep.Base
		params[i].Omega = w
	}

	results, err := ens.Run(ctx, params, sweep.Solver)
	if err != nil {
		return nil, err
	}

	return &SweepResult{
		Omegas:  omegas,
		Results: results,
		Diagram: analysis.ImpactPhaseDiagram(results, sweep.Transient),
	}, nil
}

// MonteCarloConfig perturbs the initial height and velocity of Base
// uniformly within the given spreads.
type MonteCarloConfig struct {
	Base           dynamo.Params
	Solver         dynamo.SolverConfig
	HeightSpread   float64
	VelocitySpread float64
	NumTrials      int
	Seed           int64
}

type MonteCarloResult struct {
	Trial      int
	Height     float64
	Velocity   float64
	Collisions int
	Final      dynamo.Regime
	// AdheredTime is negative when the ball never settled.
	AdheredTime float64
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, ens *sim.Ensemble) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: monte carlo needs at least one trial", dynamo.ErrParameterBounds)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	params := make([]dynamo.Params, cfg.NumTrials)
	for i := range params {
		p := cfg.Base
		p.Height += (rng.Float64() - 0.5) * 2 * cfg.HeightSpread
		p.Velocity += (rng.Float64() - 0.5) * 2 * cfg.VelocitySpread
		// the ball cannot start inside the tray
		p.Height = max(p.Height, 0)
		params[i] = p
	}

	results, err := ens.Run(ctx, params, cfg.Solver)
	if err != nil {
		return nil, err
	}

	out := make([]MonteCarloResult, len(results))
	for i, res := range results {
		at := -1.0
		if res.Adhered() {
			at = res.Times[res.AdheredAt]
		}
		out[i] = MonteCarloResult{
			Trial:       i,
			Height:      params[i].Height,
			Velocity:    params[i].Velocity,
			Collisions:  len(res.Collisions),
			Final:       res.Final,
			AdheredTime: at,
		}
	}
	return out, nil
}
