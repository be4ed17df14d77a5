package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/traysim/internal/analysis"
	"github.com/san-kum/traysim/internal/automation"
	"github.com/san-kum/traysim/internal/metrics"
	"github.com/san-kum/traysim/internal/optim"
	"github.com/san-kum/traysim/internal/sim"
	"github.com/san-kum/traysim/internal/viz"
)

var (
	omegaMin  float64
	omegaMax  float64
	numSteps  int
	transient float64
	workers   int
	saveRuns  bool
)

// ensemble gives every run its own simulator with the standard metrics.
func ensemble(gravity float64) *sim.Ensemble {
	return sim.NewEnsemble(func() *sim.Simulator {
		return sim.New(sim.WithLogger(cli.log), sim.WithMetrics(metrics.Standard(gravity)...))
	}, workers)
}

func sweepCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep the tray frequency and draw the impact phase diagram",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addParamFlags(cmd)
	cmd.Flags().Float64Var(&omegaMin, "omega-min", 15, "lowest tray frequency (rad/s)")
	cmd.Flags().Float64Var(&omegaMax, "omega-max", 40, "highest tray frequency (rad/s)")
	cmd.Flags().IntVar(&numSteps, "steps", 26, "number of frequencies")
	cmd.Flags().Float64Var(&transient, "transient", 5, "ignore impacts before this time (s)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default CPU count)")
	cmd.Flags().BoolVar(&saveRuns, "save", false, "store every run of the sweep")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.FrequencySweep{
		Base:      cfg.Params,
		Solver:    cfg.Solver,
		OmegaMin:  omegaMin,
		OmegaMax:  omegaMax,
		NumSteps:  numSteps,
		Transient: transient,
	}
	fmt.Printf("sweeping omega over [%g, %g] in %d steps...\n", omegaMin, omegaMax, numSteps)
	out, err := automation.RunSweep(cmd.Context(), sweep, ensemble(cfg.Params.Gravity))
	if err != nil {
		return err
	}

	counts := make([]float64, len(out.Results))
	for i, res := range out.Results {
		counts[i] = float64(len(res.Collisions))
	}

	width := max(viz.TerminalWidth(80)-12, 20)
	fmt.Println()
	fmt.Println(analysis.BifurcationToASCII(out.Diagram, width, 20))
	fmt.Println("impact phase (rad) vs omega")
	fmt.Println()
	if len(counts) > 1 {
		fmt.Println(viz.PlotSeries("impacts per run vs omega", counts, width, 8))
	}

	if saveRuns {
		runner, err := cli.runner()
		if err != nil {
			return err
		}
		for i, res := range out.Results {
			name := fmt.Sprintf("%s-w%.4g", cfg.Name, out.Omegas[i])
			if _, err := runner.Store(cmd.Context(), name, res); err != nil {
				return err
			}
		}
		fmt.Printf("stored %d runs\n", len(out.Results))
	}
	return nil
}

var (
	trials         int
	heightSpread   float64
	velocitySpread float64
	seed           int64
)

func monteCarloCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the initial state and report how the runs end",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addParamFlags(cmd)
	cmd.Flags().IntVar(&trials, "trials", 50, "number of runs")
	cmd.Flags().Float64Var(&heightSpread, "height-spread", 0.05, "uniform spread of the initial height (m)")
	cmd.Flags().Float64Var(&velocitySpread, "velocity-spread", 0.1, "uniform spread of the initial velocity (m/s)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default CPU count)")
	return cmd
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:           cfg.Params,
		Solver:         cfg.Solver,
		HeightSpread:   heightSpread,
		VelocitySpread: velocitySpread,
		NumTrials:      trials,
		Seed:           seed,
	}, ensemble(cfg.Params.Gravity))
	if err != nil {
		return err
	}

	finals := make(map[string]int)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tHEIGHT\tVELOCITY\tIMPACTS\tFINAL\tSETTLED AT")
	for _, r := range results {
		settled := "-"
		if r.AdheredTime >= 0 {
			settled = fmt.Sprintf("%.4fs", r.AdheredTime)
		}
		fmt.Fprintf(w, "%d\t%.5f\t%+.5f\t%d\t%s\t%s\n", r.Trial, r.Height, r.Velocity, r.Collisions, r.Final, settled)
		finals[r.Final.String()]++
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	for _, name := range []string{"FREE", "CONTACT", "ADHERED"} {
		frac := float64(finals[name]) / float64(len(results))
		fmt.Printf("%-8s %s %5.1f%%\n", name, viz.ProgressBar(frac, 30), 100*frac)
	}
	return nil
}

func scenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			runner, err := cli.runner()
			if err != nil {
				return err
			}

			fmt.Printf("scenario %s: %s\n", sc.Name, sc.Description)
			results, err := automation.RunScenario(cmd.Context(), sc, runner, cli.log)
			for i, r := range results {
				id := "(not saved)"
				if r.Meta != nil {
					id = r.Meta.ID
				}
				fmt.Printf("  %d. %-16s %4d impacts  %-8s %s\n", i+1, r.Name, len(r.Result.Collisions), r.Result.Final, id)
			}
			return err
		},
	}
}

var (
	gridSpecs  []string
	tuneMetric string
	minimize   bool
)

func tuneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tune",
		Short:   "grid search tray parameters for the best metric value",
		Example: "  traysim tune --preset gentle --grid omega=15:35:21 --grid amplitude=0.02,0.04 --metric landings",
		Args:    cobra.NoArgs,
		RunE:    runTune,
	}
	addParamFlags(cmd)
	cmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "parameter range, name=v1,v2 or name=lo:hi:n (repeatable)")
	cmd.Flags().StringVar(&tuneMetric, "metric", "landings", "metric to optimise")
	cmd.Flags().BoolVar(&minimize, "minimize", false, "look for the lowest value instead of the highest")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (default CPU count)")
	return cmd
}

func runTune(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required (parameters: %v)", optim.Parameters())
	}

	names := make([]string, 0, len(gridSpecs))
	ranges := make([][]float64, 0, len(gridSpecs))
	for _, arg := range gridSpecs {
		name, vals, err := optim.ParseRange(arg)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	best, all, err := g.Search(cmd.Context(), cfg.Params, cfg.Solver, ensemble(cfg.Params.Gravity), tuneMetric, !minimize)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(tuneMetric))
	for _, c := range all {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", c.Values[n])
		}
		fmt.Fprintf(w, "%.6g\n", c.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s = %.6g at", tuneMetric, best.Score)
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best.Values[n])
	}
	fmt.Println()
	return nil
}
