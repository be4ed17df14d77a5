package automation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/experiment"
	"github.com/san-kum/traysim/internal/sim"
	"github.com/san-kum/traysim/internal/storage"
)

const scenarioYAML = `
name: drop-then-drive
description: still tray first, then a driven one
steps:
  - name: drop
    preset: stationary
    params:
      duration: 2
    save: true
  - preset: gentle
    params:
      omega: 22
      duration: 1
    solver:
      resolution: 0.002
`

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(scenarioYAML))
	require.NoError(t, err)
	assert.Equal(t, "drop-then-drive", sc.Name)
	require.Len(t, sc.Steps, 2)

	cfg, err := sc.Steps[0].Config()
	require.NoError(t, err)
	assert.Equal(t, "drop", cfg.Name)
	assert.Equal(t, 2.0, cfg.Params.Duration)
	// untouched preset fields survive the overlay
	assert.Equal(t, 1.0, cfg.Params.Height)
	assert.Equal(t, dynamo.DefaultRestitution, cfg.Params.Restitution)

	cfg, err = sc.Steps[1].Config()
	require.NoError(t, err)
	assert.Equal(t, "gentle", cfg.Name)
	assert.Equal(t, 22.0, cfg.Params.Omega)
	assert.Equal(t, 0.03, cfg.Params.Amplitude)
	assert.Equal(t, 0.002, cfg.Solver.Resolution)
	assert.Equal(t, dynamo.DefaultSolverConfig().MaxIter, cfg.Solver.MaxIter)
}

func TestParseScenarioErrors(t *testing.T) {
	_, err := ParseScenario([]byte("name: empty\n"))
	assert.ErrorContains(t, err, "no steps")

	sc, err := ParseScenario([]byte("steps:\n  - preset: nope\n"))
	require.NoError(t, err)
	_, err = sc.Steps[0].Config()
	assert.ErrorContains(t, err, "unknown preset")

	sc, err = ParseScenario([]byte("steps:\n  - params:\n      duration: -1\n"))
	require.NoError(t, err)
	_, err = sc.Steps[0].Config()
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestRunScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0644))

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	st := storage.New(filepath.Join(dir, "runs"))
	results, err := RunScenario(t.Context(), sc, experiment.NewRunner(st), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotNil(t, results[0].Meta)
	assert.Equal(t, "drop", results[0].Meta.Name)
	assert.Nil(t, results[1].Meta)
	assert.NotNil(t, results[1].Result)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestFrequencySweepOmegas(t *testing.T) {
	tests := []struct {
		name  string
		sweep FrequencySweep
		want  []float64
	}{
		{"single", FrequencySweep{OmegaMin: 10, OmegaMax: 20, NumSteps: 1}, []float64{10}},
		{"three", FrequencySweep{OmegaMin: 10, OmegaMax: 20, NumSteps: 3}, []float64{10, 15, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.sweep.Omegas()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := (&FrequencySweep{OmegaMin: 20, OmegaMax: 10, NumSteps: 2}).Omegas()
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
	_, err = (&FrequencySweep{NumSteps: 0}).Omegas()
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}

func TestRunSweep(t *testing.T) {
	base := dynamo.DefaultParams()
	base.Amplitude, base.Height, base.Duration = 0.05, 0.1, 1

	sweep := &FrequencySweep{
		Base:     base,
		Solver:   dynamo.DefaultSolverConfig(),
		OmegaMin: 25,
		OmegaMax: 35,
		NumSteps: 3,
	}
	out, err := RunSweep(t.Context(), sweep, sim.NewEnsemble(nil, 2))
	require.NoError(t, err)
	require.Len(t, out.Results, 3)
	require.Len(t, out.Diagram, 3)

	for i, res := range out.Results {
		assert.Equal(t, out.Omegas[i], res.Params.Omega)
		assert.Equal(t, out.Omegas[i], out.Diagram[i].Param)
		assert.Equal(t, base.Amplitude, res.Params.Amplitude)
	}
}

func TestRunMonteCarlo(t *testing.T) {
	base := dynamo.DefaultParams()
	base.Height, base.Duration = 0.05, 1

	cfg := &MonteCarloConfig{
		Base:           base,
		Solver:         dynamo.DefaultSolverConfig(),
		HeightSpread:   0.1,
		VelocitySpread: 0.5,
		NumTrials:      6,
		Seed:           42,
	}
	a, err := RunMonteCarlo(t.Context(), cfg, sim.NewEnsemble(nil, 3))
	require.NoError(t, err)
	require.Len(t, a, 6)
	for i, r := range a {
		assert.Equal(t, i, r.Trial)
		assert.GreaterOrEqual(t, r.Height, 0.0)
	}

	b, err := RunMonteCarlo(t.Context(), cfg, sim.NewEnsemble(nil, 1))
	require.NoError(t, err)
	assert.Equal(t, a, b, "a fixed seed must reproduce the trials")

	_, err = RunMonteCarlo(t.Context(), &MonteCarloConfig{}, sim.NewEnsemble(nil, 1))
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}
