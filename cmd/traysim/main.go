package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/catalog"
	"github.com/san-kum/traysim/internal/config"
	"github.com/san-kum/traysim/internal/experiment"
	"github.com/san-kum/traysim/internal/logging"
	"github.com/san-kum/traysim/internal/storage"
)

var (
	dataDir string
	verbose bool
	theme   string
)

// app holds what every command shares. The catalog is opened lazily.
type app struct {
	settings *config.Settings
	log      *zap.Logger
	store    *storage.Store
	catalog  *catalog.Catalog
}

var cli app

func (a *app) openCatalog() (*catalog.Catalog, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}
	cat, err := catalog.Open(filepath.Join(a.store.Dir(), "catalog.db"))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	a.catalog = cat
	return cat, nil
}

func (a *app) runner(opts ...experiment.Option) (*experiment.Runner, error) {
	cat, err := a.openCatalog()
	if err != nil {
		return nil, err
	}
	opts = append([]experiment.Option{experiment.WithCatalog(cat), experiment.WithLogger(a.log)}, opts...)
	return experiment.NewRunner(a.store, opts...), nil
}

func (a *app) close() {
	if a.catalog != nil {
		a.catalog.Close()
	}
	if a.log != nil {
		a.log.Sync()
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "traysim",
		Short:         "bouncing ball on an oscillating tray",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.settings = config.LoadEnv()
			if !cmd.Flags().Changed("data") {
				dataDir = cli.settings.DataDir
			}
			log, err := logging.New(cli.settings.Environment, verbose)
			if err != nil {
				return err
			}
			cli.log = log
			cli.store = storage.New(dataDir)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "runs", "data directory (default from TRAYSIM_DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log solver events")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "cyberpunk", "terminal color theme")

	rootCmd.AddCommand(
		runCommand(),
		listCommand(),
		showCommand(),
		presetsCommand(),
		plotCommand(),
		analyzeCommand(),
		exportCSVCommand(),
		exportJSONCommand(),
		renderCommand(),
		replayCommand(),
		sweepCommand(),
		monteCarloCommand(),
		tuneCommand(),
		scenarioCommand(),
		serveCommand(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cli.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
