package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hrsim/internal/integrators"
	"github.com/san-kum/hrsim/internal/metrics"
	"github.com/san-kum/hrsim/internal/neuron"
	"github.com/san-kum/hrsim/internal/plugin"
	"github.com/san-kum/hrsim/internal/stimulus"
)

const (
	DefaultVariant = plugin.VariantV2
	DefaultPeriod  = 0.01
	DefaultTicks   = 50000
)

// Config describes one scheduled run of a neuron.
type Config struct {
	Variant        string             `yaml:"variant"`
	Integrator     string             `yaml:"integrator"`
	Ticks          int                `yaml:"ticks"`
	PeriodSeconds  float64            `yaml:"period_seconds"`
	Neuron         map[string]float64 `yaml:"neuron,omitempty"`
	Stimulus       stimulus.Config    `yaml:"stimulus"`
	FiniteCheck    bool               `yaml:"finite_check"`
	SpikeThreshold float64            `yaml:"spike_threshold"`
}

func DefaultConfig() *Config {
	return &Config{
		Variant:        DefaultVariant,
		Integrator:     integrators.Default,
		Ticks:          DefaultTicks,
		PeriodSeconds:  DefaultPeriod,
		Neuron:         map[string]float64{},
		Stimulus:       stimulus.Config{Kind: "none"},
		SpikeThreshold: metrics.DefaultSpikeThreshold,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Neuron == nil {
		cfg.Neuron = map[string]float64{}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Neuron = make(map[string]float64, len(c.Neuron))
	for k, v := range c.Neuron {
		out.Neuron[k] = v
	}
	return &out
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error
	if _, ok := plugin.Lookup(c.Variant); !ok {
		errs = append(errs, fmt.Errorf("unknown variant %q", c.Variant))
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		errs = append(errs, err)
	}
	if c.Ticks <= 0 {
		errs = append(errs, fmt.Errorf("ticks must be positive, got %d", c.Ticks))
	}
	if !(c.PeriodSeconds > 0) {
		errs = append(errs, fmt.Errorf("period_seconds must be positive, got %g", c.PeriodSeconds))
	}
	keys := neuron.ConfigKeys()
	for k := range c.Neuron {
		if !slices.Contains(keys, k) {
			errs = append(errs, fmt.Errorf("unknown neuron key %q", k))
		}
	}
	if _, err := stimulus.New(c.Stimulus); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
