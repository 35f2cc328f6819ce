package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/hrsim/internal/config"
	"github.com/san-kum/hrsim/internal/experiment"
	"github.com/san-kum/hrsim/internal/logger"
	"github.com/san-kum/hrsim/internal/neuron"
	"github.com/san-kum/hrsim/internal/stimulus"
	"github.com/san-kum/hrsim/internal/storage"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single run in a scenario. Zero fields inherit from the
// preset, or from the default configuration when no preset is named.
type ScenarioStep struct {
	Name          string             `yaml:"name"`
	Preset        string             `yaml:"preset"`
	Variant       string             `yaml:"variant"`
	Integrator    string             `yaml:"integrator"`
	Ticks         int                `yaml:"ticks"`
	PeriodSeconds float64            `yaml:"period_seconds"`
	Neuron        map[string]float64 `yaml:"neuron"`
	Stimulus      *stimulus.Config   `yaml:"stimulus"`
	Save          bool               `yaml:"save"`
}

// StepResult summarises one executed step.
type StepResult struct {
	Name    string
	RunID   string
	Ticks   int
	Metrics map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Variant != "" {
		cfg.Variant = s.Variant
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Ticks != 0 {
		cfg.Ticks = s.Ticks
	}
	if s.PeriodSeconds != 0 {
		cfg.PeriodSeconds = s.PeriodSeconds
	}
	for k, v := range s.Neuron {
		cfg.Neuron[k] = v
	}
	if s.Stimulus != nil {
		cfg.Stimulus = *s.Stimulus
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps marked save are written to
// store, which may be nil when nothing is saved.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info("scenario step", "n", i+1, "of", len(scenario.Steps), "name", name)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		exp.Close()
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Name: name, Ticks: result.TicksTaken, Metrics: result.Metrics}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			meta := exp.Metadata(nil)
			meta.Preset = step.Preset
			id, err := store.Save(meta, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs one simulation per value of a neuron key, evenly
// spaced over [Min, Max].
type ParameterSweep struct {
	Base    *config.Config
	Key     string
	Min     float64
	Max     float64
	Steps   int
	Workers int
}

// SweepResult holds the metrics of one sweep point
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

// RunSweep executes a parameter sweep. With Key set to "e" and the firing
// rate metric this traces the neuron's frequency-current curve.
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Steps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.Steps)
	}
	if !(sweep.Max > sweep.Min) {
		return nil, fmt.Errorf("sweep range [%g, %g] is empty", sweep.Min, sweep.Max)
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	paramStep := (sweep.Max - sweep.Min) / float64(sweep.Steps-1)
	values := make([]float64, sweep.Steps)
	cfgs := make([]*config.Config, sweep.Steps)
	for i := range cfgs {
		values[i] = sweep.Min + float64(i)*paramStep
		c := base.Clone()
		c.Neuron[sweep.Key] = values[i]
		cfgs[i] = c
	}

	runs, err := experiment.RunAll(ctx, cfgs, sweep.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{Value: values[i], Metrics: r.Metrics}
	}
	logger.Debug("sweep finished", "key", sweep.Key, "points", len(results))
	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Workers      int

	// Bound is the largest |x| a trial may reach and still count as stable.
	Bound float64
}

// MonteCarloResult holds the outcome of one perturbed trial
type MonteCarloResult struct {
	TrialID int
	Initial [3]float64
	FinalX  float64
	Spikes  float64
	Stable  bool
}

// RunMonteCarlo runs trials whose x, y, z start uniformly perturbed by up to
// Perturbation around the base initial conditions.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d", cfg.NumTrials)
	}
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	bound := cfg.Bound
	if bound <= 0 {
		bound = 1e3
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	def := neuron.DefaultState()
	origin := [3]float64{def.X, def.Y, def.Z}
	for i, key := range []string{neuron.KeyX, neuron.KeyY, neuron.KeyZ} {
		if v, ok := base.Neuron[key]; ok {
			origin[i] = v
		}
	}

	inits := make([][3]float64, cfg.NumTrials)
	cfgs := make([]*config.Config, cfg.NumTrials)
	for trial := range cfgs {
		c := base.Clone()
		for i, key := range []string{neuron.KeyX, neuron.KeyY, neuron.KeyZ} {
			inits[trial][i] = origin[i] + (rng.Float64()-0.5)*2*cfg.Perturbation
			c.Neuron[key] = inits[trial][i]
		}
		cfgs[trial] = c
	}

	runs, err := experiment.RunAll(ctx, cfgs, cfg.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for trial, r := range runs {
		final := math.NaN()
		if r.TicksTaken > 0 {
			final = r.Row(r.TicksTaken - 1)[0]
		}
		results[trial] = MonteCarloResult{
			TrialID: trial,
			Initial: inits[trial],
			FinalX:  final,
			Spikes:  r.Metrics["spikes"],
			Stable:  !math.IsNaN(final) && !math.IsInf(final, 0) && math.Abs(final) <= bound,
		}
	}
	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
