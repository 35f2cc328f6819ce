package analysis

import (
	"fmt"

	"github.com/san-kum/hrsim/internal/integrators"
	"github.com/san-kum/hrsim/internal/neuron"
)

// Probe describes the engine an analysis runs: its configuration, the host
// tick period and a constant synaptic current.
type Probe struct {
	Config        map[string]float64
	PeriodSeconds float64
	Input         float64
	Integrator    string
}

func (p Probe) engine() (*neuron.Engine, error) {
	if !(p.PeriodSeconds > 0) {
		return nil, fmt.Errorf("analysis: period must be positive, got %g", p.PeriodSeconds)
	}
	integ, err := integrators.New(p.Integrator)
	if err != nil {
		return nil, err
	}
	e := neuron.New(neuron.WithIntegrator(integ))
	e.ConfigureAll(p.Config)
	e.Configure(neuron.KeyPeriodSeconds, p.PeriodSeconds)
	e.SetInput(neuron.InputSynaptic, p.Input)
	return e, nil
}

func (p Probe) step(e *neuron.Engine) {
	e.Step(p.PeriodSeconds)
}

// stateVar reads x, y or z from an engine.
func stateVar(name string) (func(neuron.State) float64, error) {
	switch name {
	case neuron.KeyX:
		return func(s neuron.State) float64 { return s.X }, nil
	case neuron.KeyY:
		return func(s neuron.State) float64 { return s.Y }, nil
	case neuron.KeyZ:
		return func(s neuron.State) float64 { return s.Z }, nil
	}
	return nil, fmt.Errorf("analysis: %q is not a state variable", name)
}
