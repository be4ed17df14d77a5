package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/traysim/internal/catalog"
	"github.com/san-kum/traysim/internal/config"
	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/experiment"
	"github.com/san-kum/traysim/internal/viz"
)

var (
	configFile string
	preset     string
	runName    string
	metricList []string
	noSave     bool

	params = dynamo.DefaultParams()
	solver = dynamo.DefaultSolverConfig()
)

func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "run file (yaml or toml)")
	f.StringVar(&preset, "preset", "", "start from a preset")
	f.Float64Var(&params.Omega, "omega", params.Omega, "tray angular frequency (rad/s)")
	f.Float64Var(&params.Amplitude, "amplitude", params.Amplitude, "tray amplitude (m)")
	f.Float64Var(&params.Gravity, "gravity", params.Gravity, "gravitational acceleration (m/s^2)")
	f.Float64Var(&params.Restitution, "restitution", params.Restitution, "coefficient of restitution")
	f.Float64Var(&params.Duration, "duration", params.Duration, "simulated time (s)")
	f.Float64Var(&params.Height, "height", params.Height, "initial ball height (m)")
	f.Float64Var(&params.Velocity, "velocity", params.Velocity, "initial ball velocity (m/s)")
	f.Float64Var(&solver.Resolution, "resolution", solver.Resolution, "target sampling interval (s)")
	f.Float64Var(&solver.LookAhead, "look-ahead", solver.LookAhead, "take-off look-ahead (s)")
	f.Float64Var(&solver.XTol, "xtol", solver.XTol, "collision time tolerance (s)")
	f.IntVar(&solver.MaxIter, "max-iter", solver.MaxIter, "bisection iteration cap")
}

// resolveConfig layers the run settings: preset, then run file, then flags
// set explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		if cfg, err = config.LoadOnto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	f := cmd.Flags()
	for name, apply := range map[string]func(){
		"omega":       func() { cfg.Params.Omega = params.Omega },
		"amplitude":   func() { cfg.Params.Amplitude = params.Amplitude },
		"gravity":     func() { cfg.Params.Gravity = params.Gravity },
		"restitution": func() { cfg.Params.Restitution = params.Restitution },
		"duration":    func() { cfg.Params.Duration = params.Duration },
		"height":      func() { cfg.Params.Height = params.Height },
		"velocity":    func() { cfg.Params.Velocity = params.Velocity },
		"resolution":  func() { cfg.Solver.Resolution = solver.Resolution },
		"look-ahead":  func() { cfg.Solver.LookAhead = solver.LookAhead },
		"xtol":        func() { cfg.Solver.XTol = solver.XTol },
		"max-iter":    func() { cfg.Solver.MaxIter = solver.MaxIter },
	} {
		if f.Changed(name) {
			apply()
		}
	}
	if f.Changed("name") {
		cfg.Name = runName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run and store a simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addParamFlags(cmd)
	cmd.Flags().StringVar(&runName, "name", "", "run name")
	cmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to compute (default all)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without storing the run")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	viz.SetTheme(theme)
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var opts []experiment.Option
	if len(metricList) > 0 {
		opts = append(opts, experiment.WithMetrics(metricList...))
	}
	runner, err := cli.runner(opts...)
	if err != nil {
		return err
	}

	fmt.Printf("running %s...\n", cfg.Name)
	start := time.Now()

	ctx := cmd.Context()
	res, err := runner.Simulate(ctx, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n", time.Since(start))

	if !noSave {
		meta, err := runner.Store(ctx, cfg.Name, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", meta.ID)
	}

	fmt.Println(viz.Summary(cfg.Name, res, min(viz.TerminalWidth(72), 72)))
	return nil
}

var (
	listName  string
	listFinal string
	listLimit int
)

func listCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
	cmd.Flags().StringVar(&listName, "name", "", "only runs with this name")
	cmd.Flags().StringVar(&listFinal, "final", "", "only runs ending in this regime (FREE, CONTACT, ADHERED)")
	cmd.Flags().IntVar(&listLimit, "limit", 0, "show at most this many runs")
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	cat, err := cli.openCatalog()
	if err != nil {
		return err
	}
	entries, err := cat.List(cmd.Context(), catalog.Filter{
		Name:  listName,
		Final: strings.ToUpper(listFinal),
		Limit: listLimit,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tOMEGA\tAMPL\tDURATION\tIMPACTS\tFINAL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%.2fs\t%d\t%s\n",
			e.ID,
			e.Name,
			e.Created().Local().Format("2006-01-02 15:04:05"),
			e.Omega,
			e.Amplitude,
			e.Duration,
			e.Collisions,
			e.Final,
		)
	}
	return w.Flush()
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "summarise a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viz.SetTheme(theme)
			meta, res, err := cli.store.LoadResult(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("run: %s (%s)\n", meta.ID, meta.Timestamp.Local().Format(time.DateTime))
			fmt.Println(viz.Summary(meta.Name, res, min(viz.TerminalWidth(72), 72)))
			return nil
		},
	}
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list built-in presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tOMEGA\tAMPL\tHEIGHT\tDURATION\tSEPARATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				p := cfg.Params
				fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%gs\t%s\n", name, p.Omega, p.Amplitude, p.Height, p.Duration, config.Describe(cfg))
			}
			w.Flush()
		},
	}
}
