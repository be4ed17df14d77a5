// Package automation runs batches of simulations: YAML scenarios, frequency
// sweeps and Monte Carlo studies of the initial state.
package automation

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/traysim/internal/config"
	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/experiment"
	"github.com/san-kum/traysim/internal/storage"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and overlays the
// params and solver fields it sets. Steps with Save are stored.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Params yaml.Node `yaml:"params"`
	Solver yaml.Node `yaml:"solver"`
	Save   bool      `yaml:"save"`
}

// StepResult is the outcome of one step. Meta is nil for unsaved steps.
type StepResult struct {
	Name   string
	Meta   *storage.RunMetadata
	Result *dynamo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves a step into a validated run file.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", s.Preset)
		}
	}

	if !s.Params.IsZero() {
		if err := s.Params.Decode(&cfg.Params); err != nil {
			return nil, fmt.Errorf("params: %w", err)
		}
	}
	if !s.Solver.IsZero() {
		if err := s.Solver.Decode(&cfg.Solver); err != nil {
			return nil, fmt.Errorf("solver: %w", err)
		}
	}
	if s.Name != "" {
		cfg.Name = s.Name
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, runner *experiment.Runner, log *zap.Logger) ([]StepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("name", cfg.Name),
		)

		out := StepResult{Name: cfg.Name}
		if step.Save {
			out.Meta, out.Result, err = runner.Run(ctx, cfg)
		} else {
			out.Result, err = runner.Simulate(ctx, cfg)
		}
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, out)
	}

	return results, nil
}
