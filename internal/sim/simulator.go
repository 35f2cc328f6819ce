package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/hrsim/internal/dynamo"
	"github.com/san-kum/hrsim/internal/logger"
	"github.com/san-kum/hrsim/internal/neuron"
	"github.com/san-kum/hrsim/internal/stimulus"
)

// Simulator plays the host scheduler for a single node: each tick it sets
// i_syn from the stimulus, processes the node and records its outputs.
type Simulator struct {
	node      Node
	stim      stimulus.Stimulus
	metrics   []Metric
	observers []Observer
}

func New(node Node, stim stimulus.Stimulus) *Simulator {
	if stim == nil {
		stim = stimulus.None{}
	}
	return &Simulator{
		node:      node,
		stim:      stim,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	channels := s.node.Outputs()
	probe, err := probeIndex(channels, cfg.Probe)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Channels: channels,
		Times:    make([]float64, 0, cfg.Ticks),
		Inputs:   make([]float64, 0, cfg.Ticks),
		Samples:  make([]float64, 0, cfg.Ticks*len(channels)),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	logger.Debug("run started", "ticks", cfg.Ticks, "period", cfg.PeriodSeconds, "channels", len(channels))

	row := make([]float64, len(channels))
	feedback, _ := s.stim.(stimulus.Feedback)
	var runErr error

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		tick := uint64(i)
		t := float64(i) * cfg.PeriodSeconds

		var u float64
		if feedback != nil {
			u = feedback.Respond(t, s.node.Output(neuron.OutputX))
		} else {
			u = s.stim.Current(t)
		}
		s.node.SetInput(neuron.InputSynaptic, u)
		s.node.Process(tick, cfg.PeriodSeconds)

		tEnd := t + cfg.PeriodSeconds
		for c, name := range channels {
			row[c] = s.node.Output(name)
		}

		result.Times = append(result.Times, tEnd)
		result.Inputs = append(result.Inputs, u)
		result.Samples = append(result.Samples, row...)
		result.TicksTaken++

		for _, m := range s.metrics {
			m.Observe(row[probe], u, tEnd)
		}
		for _, obs := range s.observers {
			obs.OnTick(tick, tEnd, u, row)
		}

		if f, ok := s.node.(Faulter); ok {
			if err := f.Fault(); err != nil {
				runErr = err
				break
			}
		}
		if cfg.StopOnInvalid && !dynamo.State(row).IsValid() {
			runErr = &dynamo.SimulationError{
				Step:    i + 1,
				Time:    tEnd,
				State:   dynamo.State(row).Clone(),
				Wrapped: dynamo.ErrInvalidState,
			}
			break
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		logger.Warn("run stopped", "ticks", result.TicksTaken, "err", runErr)
		return result, runErr
	}
	logger.Debug("run finished", "ticks", result.TicksTaken)
	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Ticks <= 0 {
		return fmt.Errorf("ticks must be positive, got %d", cfg.Ticks)
	}
	if !(cfg.PeriodSeconds > 0) || math.IsInf(cfg.PeriodSeconds, 0) {
		return fmt.Errorf("period must be positive, got %g", cfg.PeriodSeconds)
	}
	return nil
}

func probeIndex(channels []string, probe string) (int, error) {
	if len(channels) == 0 {
		return 0, fmt.Errorf("node declares no outputs")
	}
	if probe == "" {
		return 0, nil
	}
	for i, c := range channels {
		if c == probe {
			return i, nil
		}
	}
	return 0, fmt.Errorf("probe %q is not an output of this node", probe)
}
