package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/traysim/internal/analysis"
	"github.com/san-kum/traysim/internal/export"
	"github.com/san-kum/traysim/internal/storage"
	"github.com/san-kum/traysim/internal/viz"
)

var (
	plotWidth  int
	plotHeight int
	outFile    string
)

func plotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot ball and tray heights in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, res, err := cli.store.LoadResult(args[0])
			if err != nil {
				return err
			}
			if res.Len() == 0 {
				return fmt.Errorf("no data to plot")
			}

			width := plotWidth
			if width <= 0 {
				width = max(viz.TerminalWidth(90)-12, 20)
			}
			fmt.Printf("run: %s (%s)\n", meta.ID, meta.Name)
			fmt.Printf("samples: %d, collisions: %d\n\n", res.Len(), len(res.Collisions))
			fmt.Println(viz.PlotHeights(res, width, plotHeight))
			fmt.Println()
			fmt.Println(viz.PlotSeries("velocity (m/s)", res.Velocity, width, plotHeight/2))
			return nil
		},
	}
	cmd.Flags().IntVar(&plotWidth, "width", 0, "chart width (default terminal width)")
	cmd.Flags().IntVar(&plotHeight, "height", 12, "chart height")
	return cmd
}

func analyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "impact phases, flights and height spectrum of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := cli.store.LoadResult(args[0])
			if err != nil {
				return err
			}

			bounces := analysis.Bounces(res)
			flights := analysis.Flights(res)
			fmt.Printf("impacts: %d, flights: %d\n", len(bounces), len(flights))

			if len(bounces) > 0 {
				fmt.Println("\nimpacts (first 10):")
				for _, b := range bounces[:min(len(bounces), 10)] {
					fmt.Printf("  t=%.6f  phase=%.4f rad  take-off v=%+.4f\n", b.Time, b.Phase, b.TakeOff)
				}
			}

			if len(flights) > 0 {
				longest := flights[0]
				for _, f := range flights {
					if f.Duration > longest.Duration {
						longest = f
					}
				}
				fmt.Printf("\nlongest flight: %.4fs from t=%.4f, apex %.5f m\n", longest.Duration, res.Times[longest.Start], longest.Apex)
			}

			spectrum := analysis.HeightSpectrum(res)
			if len(spectrum.Freq) > 1 {
				fmt.Printf("dominant height frequency: %.4f Hz", spectrum.Dominant())
				if res.Params.Omega > 0 {
					fmt.Printf(" (tray %.4f Hz)", res.Params.Omega/(2*math.Pi))
				}
				fmt.Println()
			}
			return nil
		},
	}
}

func exportCSVCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export the trajectory as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, res, err := cli.store.LoadResult(args[0])
			if err != nil {
				return err
			}
			if outFile == "" {
				return storage.WriteCSV(os.Stdout, res)
			}
			f, err := os.Create(outFile)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := storage.WriteCSV(f, res); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

func exportJSONCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export the run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, res, err := cli.store.LoadResult(args[0])
			if err != nil {
				return err
			}
			if outFile == "" {
				return storage.WriteJSON(os.Stdout, meta, res)
			}
			if err := storage.ExportJSON(outFile, meta, res); err != nil {
				return err
			}
			fmt.Printf("exported to %s\n", outFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	return cmd
}

var (
	renderWidth  int
	renderHeight int
)

func renderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render the trajectory to SVG or PNG",
		Long:  "render the trajectory to an image; the format follows the extension of --out (.svg or .png)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, res, err := cli.store.LoadResult(args[0])
			if err != nil {
				return err
			}
			out := outFile
			if out == "" {
				out = meta.ID + ".svg"
			}

			switch strings.ToLower(filepath.Ext(out)) {
			case ".png":
				// 96 dpi
				err = export.SavePNG(res, meta.Name, out, float64(renderWidth)/96, float64(renderHeight)/96)
			case ".svg":
				err = os.WriteFile(out, []byte(export.TrajectoryToSVG(res, renderWidth, renderHeight)), 0644)
			default:
				return fmt.Errorf("unsupported image format %q", filepath.Ext(out))
			}
			if err != nil {
				return err
			}
			fmt.Printf("rendered to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output image (default <run_id>.svg)")
	cmd.Flags().IntVar(&renderWidth, "width", 960, "width in pixels")
	cmd.Flags().IntVar(&renderHeight, "height", 480, "height in pixels")
	return cmd
}

func replayCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "replay [run_id]",
		Short: "replay a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viz.SetTheme(theme)
			meta, res, err := cli.store.LoadResult(args[0])
			if err != nil {
				return err
			}
			if res.Len() == 0 {
				return fmt.Errorf("run %s has no samples", meta.ID)
			}
			p := tea.NewProgram(viz.NewReplay(meta.Name, res), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
