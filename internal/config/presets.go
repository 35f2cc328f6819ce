package config

import "sort"

// Presets are named starting points for the classic firing regimes.
var Presets = map[string]*Config{
	"quiescent": {
		Variant: "hindmarsh_rose_v2", Integrator: "rk5", Ticks: 20000, PeriodSeconds: 0.02,
		Neuron: map[string]float64{"e": 1.0},
	},
	"bursting": {
		Variant: "hindmarsh_rose_v2", Integrator: "rk5", Ticks: 40000, PeriodSeconds: 0.02,
		Neuron: map[string]float64{"e": 3.0},
	},
	"chaotic": {
		Variant: "hindmarsh_rose_v2", Integrator: "rk5", Ticks: 60000, PeriodSeconds: 0.02,
		Neuron: map[string]float64{"e": 3.25},
	},
	"tonic": {
		Variant: "hindmarsh_rose_v2", Integrator: "rk5", Ticks: 20000, PeriodSeconds: 0.02,
		Neuron: map[string]float64{"e": 4.0},
	},
	"burst_sync": {
		Variant: "hindmarsh_rose_v2", Integrator: "rk5", Ticks: 10000, PeriodSeconds: 0.001,
		Neuron: map[string]float64{"e": 3.0, "burst_sync": 1, "burst_duration": 1.0},
	},
}

// GetPreset returns a copy of the named preset with defaults filled in, or
// nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	if cfg.Stimulus.Kind == "" {
		cfg.Stimulus = def.Stimulus
	}
	if cfg.SpikeThreshold == 0 {
		cfg.SpikeThreshold = def.SpikeThreshold
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
