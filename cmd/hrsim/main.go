package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/hrsim/internal/logger"
)

var (
	dataDir  string
	logLevel string
	logFile  string

	// Run configuration, applied over config file and preset values.
	configFile     string
	preset         string
	variant        string
	integrator     string
	ticks          int
	period         float64
	settings       map[string]string
	finiteCheck    bool
	spikeThreshold float64

	// Stimulus
	stimKind   string
	stimAmp    float64
	stimStart  float64
	stimWidth  float64
	stimPeriod float64
	stimFreq   float64
	stimOffset float64
	kp         float64
	ki         float64
	kd         float64
	target     float64

	// Analysis
	channel    string
	sweepKey   string
	sweepMin   float64
	sweepMax   float64
	workers    int
	crossVar   string
	crossLevel float64
	outFile    string

	// Batch
	metricName string
	metricGoal float64
	trials     int
	seed       int64
	gridSpecs  []string

	ticksPerFrame int
)

// main registers the hrsim commands and executes the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "hrsim",
		Short:        "hindmarsh-rose neuron simulation lab",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Configure(logLevel, logFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hrsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append logs to this file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation with live visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&ticksPerFrame, "tpf", 20, "ticks per frame")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same configuration",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	addRunFlags(compareCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export one output channel as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&channel, "channel", "", "output channel (default: first)")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default: stdout)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&channel, "channel", "", "output channel (default: first)")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation",
		Short: "sweep a parameter and plot spike peaks",
		Args:  cobra.NoArgs,
		RunE:  bifurcation,
	}
	addProbeFlags(bifurcationCmd)
	bifurcationCmd.Flags().StringVar(&sweepKey, "key", "e", "configuration key to sweep")
	bifurcationCmd.Flags().Float64Var(&sweepMin, "min", 1.0, "sweep start")
	bifurcationCmd.Flags().Float64Var(&sweepMax, "max", 4.0, "sweep end")
	bifurcationCmd.Flags().Int("steps", 80, "sweep points")
	bifurcationCmd.Flags().Int("transient", 5000, "ticks discarded per point")
	bifurcationCmd.Flags().Int("record", 5000, "ticks recorded per point")
	bifurcationCmd.Flags().IntVar(&workers, "workers", 0, "concurrent points (0: unbounded)")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.NoArgs,
		RunE:  lyapunov,
	}
	addProbeFlags(lyapunovCmd)
	lyapunovCmd.Flags().Int("ticks", 20000, "ticks to integrate")
	lyapunovCmd.Flags().Float64("perturbation", 1e-8, "initial separation")

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase space plot",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	addProbeFlags(phaseCmd)
	phaseCmd.Flags().String("x-var", "x", "state variable on the x-axis")
	phaseCmd.Flags().String("y-var", "y", "state variable on the y-axis")
	phaseCmd.Flags().Int("transient", 2000, "ticks discarded")
	phaseCmd.Flags().Int("ticks", 10000, "ticks recorded")
	phaseCmd.Flags().StringVarP(&outFile, "svg", "o", "", "also write the portrait as SVG")

	poincareCmd := &cobra.Command{
		Use:   "poincare",
		Short: "poincare section through a threshold",
		Args:  cobra.NoArgs,
		RunE:  poincare,
	}
	addProbeFlags(poincareCmd)
	poincareCmd.Flags().StringVar(&crossVar, "cross", "x", "variable whose upward crossing is recorded")
	poincareCmd.Flags().Float64Var(&crossLevel, "level", 0, "crossing threshold")
	poincareCmd.Flags().String("x-var", "y", "recorded variable on the x-axis")
	poincareCmd.Flags().String("y-var", "z", "recorded variable on the y-axis")
	poincareCmd.Flags().Int("ticks", 50000, "ticks integrated")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a neuron key and tabulate run metrics",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepKey, "key", "e", "neuron key to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1.0, "sweep start")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 4.0, "sweep end")
	sweepCmd.Flags().Int("steps", 16, "sweep points")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0: unbounded)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "firing_rate_hz", "metric to plot")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run trials from perturbed initial conditions",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().Float64("perturbation", 0.1, "maximum offset of x, y and z")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0: time based)")
	monteCarloCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0: unbounded)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search neuron keys for a metric target",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addRunFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "grid axis as key=min:max:n (repeatable)")
	tuneCmd.Flags().StringVar(&metricName, "metric", "firing_rate_hz", "metric to match")
	tuneCmd.Flags().Float64Var(&metricGoal, "goal", 1.0, "target metric value")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	variantsCmd := &cobra.Command{
		Use:   "variants",
		Short: "list neuron variants",
		Args:  cobra.NoArgs,
		RunE:  listVariants,
	}

	describeCmd := &cobra.Command{
		Use:   "describe [variant]",
		Short: "print a variant's host descriptors as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  describeVariant,
	}

	rootCmd.AddCommand(runCmd, liveCmd, compareCmd, listCmd, plotCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, deleteCmd, analyzeCmd,
		bifurcationCmd, lyapunovCmd, phaseCmd, poincareCmd, scenarioCmd, sweepCmd,
		monteCarloCmd, tuneCmd, presetsCmd, variantsCmd, describeCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
