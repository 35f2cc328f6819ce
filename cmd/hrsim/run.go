package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/hrsim/internal/config"
	"github.com/san-kum/hrsim/internal/experiment"
	"github.com/san-kum/hrsim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	fmt.Printf("running %s (%d ticks at %gs)...\n", cfg.Variant, cfg.Ticks, cfg.PeriodSeconds)
	start := time.Now()

	result, runErr := exp.Run(cmd.Context())
	elapsed := time.Since(start)
	if result == nil {
		return runErr
	}

	meta := exp.Metadata(runErr)
	meta.Preset = preset
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d\n", result.TicksTaken)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	return viz.RunLive(exp.Node(), exp.Stimulus(), cfg.PeriodSeconds, ticksPerFrame)
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfgs := make([]*config.Config, len(args))
	for i, name := range args {
		c := base.Clone()
		c.Integrator = name
		cfgs[i] = c
	}

	fmt.Printf("comparing integrators for %s (period=%gs, ticks=%d)\n\n", base.Variant, base.PeriodSeconds, base.Ticks)

	start := time.Now()
	results, err := experiment.RunAll(cmd.Context(), cfgs, 0)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	ref := results[0]
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL\tSPIKES\tRATE(HZ)\tRMS_DIFF")
	for i, r := range results {
		final := 0.0
		if r.TicksTaken > 0 {
			final = r.Row(r.TicksTaken - 1)[0]
		}
		fmt.Fprintf(w, "%s\t%.6f\t%.0f\t%.3f\t%.2e\n",
			args[i], final, r.Metrics["spikes"], r.Metrics["firing_rate_hz"], rmsDiff(ref.Channel(ref.Channels[0]), r.Channel(r.Channels[0])))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%s\n", strings.Repeat("-", 52))
	fmt.Printf("total wall time: %v\n", elapsed)
	return nil
}

// rmsDiff is the root-mean-square difference over the common prefix.
func rmsDiff(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}
