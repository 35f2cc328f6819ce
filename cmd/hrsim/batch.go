package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/hrsim/internal/automation"
	"github.com/san-kum/hrsim/internal/optim"
	"github.com/san-kum/hrsim/internal/viz"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	fmt.Printf("scenario: %s (%d steps)\n", sc.Name, len(sc.Steps))
	if sc.Description != "" {
		fmt.Printf("%s\n", sc.Description)
	}
	fmt.Println()

	results, err := automation.RunScenario(cmd.Context(), sc, st)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tTICKS\tSPIKES\tBURSTS\tRATE(HZ)\tRUN")
	for _, r := range results {
		runID := r.RunID
		if runID == "" {
			runID = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%.0f\t%.0f\t%.3f\t%s\n",
			r.Name, r.Ticks, r.Metrics["spikes"], r.Metrics["bursts"], r.Metrics["firing_rate_hz"], runID)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		Base:    base,
		Key:     sweepKey,
		Min:     sweepMin,
		Max:     sweepMax,
		Steps:   intFlag(cmd, "steps"),
		Workers: workers,
	}
	results, err := automation.RunSweep(cmd.Context(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSPIKES\tBURSTS\tRATE(HZ)\tSTABILITY\n", strings.ToUpper(sweep.Key))
	curve := make([]float64, len(results))
	for i, r := range results {
		fmt.Fprintf(w, "%.4f\t%.0f\t%.0f\t%.3f\t%.3f\n",
			r.Value, r.Metrics["spikes"], r.Metrics["bursts"], r.Metrics["firing_rate_hz"], r.Metrics["stability"])
		curve[i] = r.Metrics[metricName]
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.PlotTrace(curve, 60, 12, fmt.Sprintf("%s vs %s", metricName, sweep.Key)))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         base,
		Perturbation: floatFlag(cmd, "perturbation"),
		NumTrials:    trials,
		Seed:         seed,
		Workers:      workers,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tX0\tY0\tZ0\tFINAL\tSPIKES\tSTABLE")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\t%.4f\t%.0f\t%v\n",
			r.TrialID, r.Initial[0], r.Initial[1], r.Initial[2], r.FinalX, r.Spikes, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d, unstable: %d\n", stable, unstable)
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid axis is required")
	}

	names := make([]string, len(gridSpecs))
	ranges := make([][]float64, len(gridSpecs))
	for i, spec := range gridSpecs {
		name, values, err := parseGrid(spec)
		if err != nil {
			return err
		}
		names[i], ranges[i] = name, values
	}

	g := optim.NewGridSearch(base, names, ranges)
	best, score, err := g.Search(cmd.Context(), optim.MetricTarget(metricName, metricGoal))
	if err != nil {
		return err
	}

	fmt.Printf("best match for %s = %g (|error| %.4g):\n", metricName, metricGoal, score)
	keys := make([]string, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("  %s: %g\n", k, best[k])
	}
	return nil
}

// parseGrid reads key=min:max:n.
func parseGrid(spec string) (string, []float64, error) {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("grid %q: want key=min:max:n", spec)
	}
	parts := strings.Split(rest, ":")
	if len(parts) != 3 {
		return "", nil, fmt.Errorf("grid %q: want key=min:max:n", spec)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", spec, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("grid %q: %w", spec, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n <= 0 {
		return "", nil, fmt.Errorf("grid %q: point count must be a positive integer", spec)
	}
	return name, optim.Linspace(lo, hi, n), nil
}
