package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/hrsim/internal/analysis"
	"github.com/san-kum/hrsim/internal/config"
	"github.com/san-kum/hrsim/internal/integrators"
	"github.com/san-kum/hrsim/internal/metrics"
	"github.com/san-kum/hrsim/internal/storage"
)

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&variant, "variant", config.DefaultVariant, "neuron variant")
	f.StringVar(&integrator, "integrator", integrators.Default, "integrator (euler, rk4, rk5)")
	f.IntVar(&ticks, "ticks", config.DefaultTicks, "host ticks to run")
	f.Float64Var(&period, "period", config.DefaultPeriod, "host tick period in seconds")
	f.StringToStringVar(&settings, "set", nil, "neuron configuration, e.g. --set e=3.2,mu=0.006")
	f.BoolVar(&finiteCheck, "finite-check", false, "stop at the first non-finite state")
	f.Float64Var(&spikeThreshold, "threshold", metrics.DefaultSpikeThreshold, "spike detection threshold on x")

	f.StringVar(&stimKind, "stim", "none", "stimulus kind (none, constant, pulse, train, sine, clamp)")
	f.Float64Var(&stimAmp, "amp", 0, "stimulus amplitude")
	f.Float64Var(&stimStart, "start", 0, "stimulus onset in seconds")
	f.Float64Var(&stimWidth, "width", 0, "pulse width in seconds")
	f.Float64Var(&stimPeriod, "stim-period", 0, "pulse train period in seconds")
	f.Float64Var(&stimFreq, "freq", 0, "sine frequency in hz")
	f.Float64Var(&stimOffset, "offset", 0, "sine offset")
	f.Float64Var(&kp, "kp", 1.0, "clamp kp")
	f.Float64Var(&ki, "ki", 0.0, "clamp ki")
	f.Float64Var(&kd, "kd", 0.0, "clamp kd")
	f.Float64Var(&target, "target", 0.0, "clamp target x")
}

// addProbeFlags registers the engine flags shared by the analysis commands.
func addProbeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringToStringVar(&settings, "set", nil, "neuron configuration, e.g. --set e=3.2")
	f.Float64Var(&period, "period", config.DefaultPeriod, "host tick period in seconds")
	f.StringVar(&integrator, "integrator", integrators.Default, "integrator (euler, rk4, rk5)")
	f.Float64("input", 0, "constant synaptic current")
}

// buildConfig layers the run configuration: defaults, then the preset, then
// the config file, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		for k, v := range cfg.Neuron {
			if _, ok := fileCfg.Neuron[k]; !ok {
				fileCfg.Neuron[k] = v
			}
		}
		cfg = fileCfg
	}

	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant = variant
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("period") {
		cfg.PeriodSeconds = period
	}
	if flags.Changed("finite-check") {
		cfg.FiniteCheck = finiteCheck
	}
	if flags.Changed("threshold") {
		cfg.SpikeThreshold = spikeThreshold
	}

	neuronSettings, err := parseSettings(settings)
	if err != nil {
		return nil, err
	}
	for k, v := range neuronSettings {
		cfg.Neuron[k] = v
	}

	if flags.Changed("stim") {
		cfg.Stimulus.Kind = stimKind
	}
	for name, dst := range map[string]*float64{
		"amp":         &cfg.Stimulus.Amplitude,
		"start":       &cfg.Stimulus.Start,
		"width":       &cfg.Stimulus.Width,
		"stim-period": &cfg.Stimulus.Period,
		"freq":        &cfg.Stimulus.Frequency,
		"offset":      &cfg.Stimulus.Offset,
		"kp":          &cfg.Stimulus.Kp,
		"ki":          &cfg.Stimulus.Ki,
		"kd":          &cfg.Stimulus.Kd,
		"target":      &cfg.Stimulus.Target,
	} {
		if flags.Changed(name) {
			v, _ := flags.GetFloat64(name)
			*dst = v
		}
	}
	if cfg.Stimulus.Kind == "clamp" && !flags.Changed("kp") && cfg.Stimulus.Kp == 0 {
		cfg.Stimulus.Kp = kp
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildProbe(cmd *cobra.Command) (analysis.Probe, error) {
	cfg, err := parseSettings(settings)
	if err != nil {
		return analysis.Probe{}, err
	}
	input, _ := cmd.Flags().GetFloat64("input")
	return analysis.Probe{
		Config:        cfg,
		PeriodSeconds: period,
		Input:         input,
		Integrator:    integrator,
	}, nil
}

func parseSettings(raw map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(raw))
	for k, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func intFlag(cmd *cobra.Command, name string) int {
	v, _ := cmd.Flags().GetInt(name)
	return v
}

func stringFlag(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func floatFlag(cmd *cobra.Command, name string) float64 {
	v, _ := cmd.Flags().GetFloat64(name)
	return v
}
