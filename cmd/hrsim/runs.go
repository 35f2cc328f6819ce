package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/hrsim/internal/analysis"
	"github.com/san-kum/hrsim/internal/export"
	"github.com/san-kum/hrsim/internal/sim"
	"github.com/san-kum/hrsim/internal/storage"
	"github.com/san-kum/hrsim/internal/viz"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVARIANT\tPRESET\tTIME\tTICKS\tPERIOD\tINTEG\tSTATUS")

	for _, run := range runs {
		status := "ok"
		if run.Error != "" {
			status = "error"
		}
		presetName := run.Preset
		if presetName == "" {
			presetName = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%gs\t%s\t%s\n",
			run.ID,
			run.Variant,
			presetName,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Ticks,
			run.PeriodSeconds,
			run.Integrator,
			status,
		)
	}

	return w.Flush()
}

// loadRun resolves an id prefix and loads both metadata and samples.
func loadRun(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadSamples(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if result.TicksTaken == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", meta.ID)
	}
	return meta, result, nil
}

// pickChannel returns the named channel, or the first one when name is
// empty.
func pickChannel(result *sim.Result, name string) (string, []float64, error) {
	if name == "" {
		name = result.Channels[0]
	}
	values := result.Channel(name)
	if values == nil {
		return "", nil, fmt.Errorf("run has no channel %q (have %v)", name, result.Channels)
	}
	return name, values, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("samples: %d\n\n", result.TicksTaken)

	for _, name := range result.Channels {
		fmt.Println(viz.PlotTrace(result.Channel(name), 80, 10, name))
		fmt.Println()
	}

	if hasInput(result.Inputs) {
		fmt.Println(viz.PlotTrace(result.Inputs, 80, 6, "i_syn"))
		fmt.Println()
	}
	return nil
}

func hasInput(inputs []float64) bool {
	for _, u := range inputs {
		if u != 0 {
			return true
		}
	}
	return false
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	_, values, err := pickChannel(result, channel)
	if err != nil {
		return err
	}

	doc := export.TraceToSVG(result.Times, values, 800, 300, "#00cc66")
	return writeOut(outFile, func(w io.Writer) error {
		return export.WriteSVG(w, doc)
	})
}

// writeOut writes to path, or to stdout when path is empty.
func writeOut(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func deleteRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	id, err := st.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(id); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", id)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	name, data, err := pickChannel(result, channel)
	if err != nil {
		return err
	}
	if !(meta.PeriodSeconds > 0) {
		return fmt.Errorf("run %s has no tick period", meta.ID)
	}
	rate := 1.0 / meta.PeriodSeconds

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("variant: %s\n", meta.Variant)
	fmt.Printf("channel: %s\n\n", name)

	freqs, power := analysis.PowerSpectrum(data, rate)
	if len(power) > 1 {
		plotData := power[1 : len(power)/4+1]
		fmt.Println(viz.PlotTrace(plotData, 80, 15, fmt.Sprintf("power spectrum (%s), 0-%.2f hz", name, freqs[len(plotData)])))
		fmt.Println()
	}

	freq := analysis.DominantFrequency(data, rate)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	if len(meta.Metrics) > 0 {
		fmt.Println("\nmetrics:")
		printMetrics(meta.Metrics)
	}
	return nil
}
