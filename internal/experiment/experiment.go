package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/hrsim/internal/config"
	"github.com/san-kum/hrsim/internal/integrators"
	"github.com/san-kum/hrsim/internal/logger"
	"github.com/san-kum/hrsim/internal/metrics"
	"github.com/san-kum/hrsim/internal/neuron"
	"github.com/san-kum/hrsim/internal/plugin"
	"github.com/san-kum/hrsim/internal/sim"
	"github.com/san-kum/hrsim/internal/stimulus"
	"github.com/san-kum/hrsim/internal/storage"
)

// Experiment binds a run configuration to a live node, stimulus and
// simulator.
type Experiment struct {
	cfg    *config.Config
	preset string

	node      *plugin.Instance
	stim      stimulus.Stimulus
	simulator *sim.Simulator
	ignored   []string
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg.Clone()}
}

// FromPreset starts an experiment from a named preset.
func FromPreset(name string) (*Experiment, error) {
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	e := New(cfg)
	e.preset = name
	return e, nil
}

// Setup validates the configuration and builds the node and simulator.
// Metrics from metrics.Standard are attached; callers may add more through
// Simulator before Run.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	integ, err := integrators.New(e.cfg.Integrator)
	if err != nil {
		return err
	}
	node, err := plugin.NewInstance(e.cfg.Variant,
		neuron.WithIntegrator(integ),
		neuron.WithFiniteCheck(e.cfg.FiniteCheck),
	)
	if err != nil {
		return err
	}

	settings := make(map[string]float64, len(e.cfg.Neuron)+1)
	for k, v := range e.cfg.Neuron {
		settings[k] = v
	}
	if _, ok := settings[neuron.KeyPeriodSeconds]; !ok {
		settings[neuron.KeyPeriodSeconds] = e.cfg.PeriodSeconds
	}
	ignored, err := node.Configure(settings)
	if err != nil {
		return err
	}
	for _, k := range ignored {
		logger.Warn("config key ignored", "key", k)
	}

	stim, err := stimulus.New(e.cfg.Stimulus)
	if err != nil {
		return err
	}

	e.node = node
	e.stim = stim
	e.ignored = ignored
	e.simulator = sim.New(node, stim)
	for _, m := range metrics.Standard(e.cfg.SpikeThreshold) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// SimConfig is the scheduler configuration the experiment runs with.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Ticks:         e.cfg.Ticks,
		PeriodSeconds: e.cfg.PeriodSeconds,
		StopOnInvalid: e.cfg.FiniteCheck,
	}
}

// Metadata describes a finished run for the store. runErr, when non-nil,
// is recorded alongside the partial result.
func (e *Experiment) Metadata(runErr error) storage.RunMetadata {
	meta := storage.RunMetadata{
		Variant:       e.cfg.Variant,
		Preset:        e.preset,
		PeriodSeconds: e.cfg.PeriodSeconds,
		Integrator:    e.cfg.Integrator,
		Config:        e.cfg.Neuron,
		Stimulus:      e.cfg.Stimulus,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}
	return meta
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Node returns the neuron instance built by Setup.
func (e *Experiment) Node() *plugin.Instance { return e.node }

func (e *Experiment) Stimulus() stimulus.Stimulus { return e.stim }

// Ignored lists the neuron keys the engine did not recognise during Setup.
func (e *Experiment) Ignored() []string { return e.ignored }

func (e *Experiment) Close() {
	if e.node != nil {
		e.node.Close()
	}
}

// Factory adapts a list of configurations into an ensemble factory. Every
// member is built and set up independently.
func Factory(cfgs []*config.Config) sim.Factory {
	return func(i int) (*sim.Simulator, error) {
		if i < 0 || i >= len(cfgs) {
			return nil, fmt.Errorf("no configuration for member %d", i)
		}
		e := New(cfgs[i])
		if err := e.Setup(); err != nil {
			return nil, err
		}
		return e.Simulator(), nil
	}
}

// RunAll runs cfgs concurrently and returns their results in order. All
// configurations must share one tick count and period.
func RunAll(ctx context.Context, cfgs []*config.Config, limit int) ([]*sim.Result, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("no configurations")
	}
	first := cfgs[0]
	for i, c := range cfgs[1:] {
		if c.Ticks != first.Ticks || c.PeriodSeconds != first.PeriodSeconds {
			return nil, fmt.Errorf("member %d: ticks and period must match member 0", i+1)
		}
	}
	ens := sim.NewEnsemble(len(cfgs), Factory(cfgs))
	ens.SetLimit(limit)
	return ens.Run(ctx, sim.Config{
		Ticks:         first.Ticks,
		PeriodSeconds: first.PeriodSeconds,
		StopOnInvalid: first.FiniteCheck,
	})
}
