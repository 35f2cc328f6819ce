package neuron

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/hrsim/internal/dynamo"
	"github.com/san-kum/hrsim/internal/integrators"
)

type Option func(*Engine)

// WithIntegrator replaces the default six-stage Runge-Kutta stepper.
func WithIntegrator(integ dynamo.Integrator) Option {
	return func(e *Engine) {
		if integ != nil {
			e.integ = integ
		}
	}
}

// WithSelfCorrect controls whether Step re-derives dt when the host tick
// period drifts from the configured period. Enabled by default.
func WithSelfCorrect(on bool) Option {
	return func(e *Engine) { e.selfCorrect = on }
}

// WithFiniteCheck makes Step record a fault the first time the state
// becomes NaN or Inf.
func WithFiniteCheck(on bool) Option {
	return func(e *Engine) { e.checkFinite = on }
}

// Engine advances one Hindmarsh-Rose Model under host-imposed timing.
type Engine struct {
	model   Model
	initial [3]float64

	// increment is the requested sub-step size from time_increment; zero
	// when the sub-step count was set directly.
	increment float64

	sys   dynamo.System
	integ dynamo.Integrator
	vars  dynamo.State
	u     dynamo.Control

	selfCorrect bool
	checkFinite bool

	ticks  int
	t      float64
	fault  error
	closed bool
}

// New returns a Ready engine holding the default model.
func New(opts ...Option) *Engine {
	e := &Engine{
		model:       DefaultModel(),
		integ:       integrators.NewRK5(),
		vars:        make(dynamo.State, 3),
		u:           make(dynamo.Control, 1),
		selfCorrect: true,
	}
	e.sys = NewSystem(&e.model.Params)
	e.initial = [3]float64{e.model.State.X, e.model.State.Y, e.model.State.Z}
	for _, opt := range opts {
		opt(e)
	}
	// Prime integrator scratch so stepping never allocates.
	e.integ.Step(e.sys, e.vars, e.u, 0, 0)
	return e
}

// Configure applies one configuration key and reports whether it was
// recognised. Unknown keys are ignored.
func (e *Engine) Configure(key string, value float64) bool {
	if e.closed {
		return false
	}
	p := &e.model.Params
	s := &e.model.State

	switch key {
	case KeyX:
		s.X, e.initial[0] = value, value
	case KeyY:
		s.Y, e.initial[1] = value, value
	case KeyZ:
		s.Z, e.initial[2] = value, value
	case KeyE:
		p.E = value
	case KeyMu:
		p.Mu = value
	case KeyS:
		p.S = value
	case KeyVh:
		p.Vh = value
	case KeyBurstDuration:
		p.BurstDuration = value
		e.retime()
	case KeyPeriodSeconds:
		p.PeriodSeconds = value
		e.retime()
	case KeySPoints, KeySamplePoints:
		p.SamplePoints = coerceSamplePoints(value)
		e.increment = 0
		e.retime()
	case KeyTimeIncrement:
		if !(value > 0) {
			return false
		}
		e.increment = value
		e.retime()
	case KeyBurstSync:
		p.BurstSync = value != 0
		e.retime()
	default:
		return false
	}
	return true
}

// ConfigureAll applies cfg in key order and returns the keys that were
// ignored.
func (e *Engine) ConfigureAll(cfg map[string]float64) []string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ignored []string
	for _, k := range keys {
		if !e.Configure(k, cfg[k]) {
			ignored = append(ignored, k)
		}
	}
	return ignored
}

// retime re-derives Dt (and, when timing is derived from a sub-step size or
// the burst table, SamplePoints) after any timing input changes.
func (e *Engine) retime() {
	p := &e.model.Params

	if p.BurstSync {
		if dt, points, ok := burstTiming(p.BurstDuration, p.PeriodSeconds); ok {
			p.Dt, p.SamplePoints = dt, points
			return
		}
	}

	if p.PeriodSeconds <= 0 {
		p.Dt = 0
		return
	}
	if e.increment > 0 {
		p.SamplePoints = coerceSamplePoints(p.PeriodSeconds / e.increment)
	}
	p.Dt = p.PeriodSeconds / float64(p.SamplePoints)
}

// SetInput stores the driving current for name and reports whether name is
// the synaptic input channel.
func (e *Engine) SetInput(name string, value float64) bool {
	if e.closed || name != InputSynaptic {
		return false
	}
	e.model.State.SynapticInput = value
	return true
}

// Step advances the model by one host tick of tickPeriodSeconds.
func (e *Engine) Step(tickPeriodSeconds float64) {
	if e.closed {
		return
	}
	p := &e.model.Params
	if e.selfCorrect && tickPeriodSeconds > 0 &&
		math.Abs(tickPeriodSeconds-p.PeriodSeconds) > PeriodEpsilon {
		e.Configure(KeyPeriodSeconds, tickPeriodSeconds)
	}

	s := &e.model.State
	e.vars[0], e.vars[1], e.vars[2] = s.X, s.Y, s.Z
	e.u[0] = s.SynapticInput

	dt := p.Dt
	for i := 0; i < p.SamplePoints; i++ {
		e.integ.Step(e.sys, e.vars, e.u, e.t, dt)
		e.t += dt
	}
	s.X, s.Y, s.Z = e.vars[0], e.vars[1], e.vars[2]
	e.ticks++

	if e.checkFinite && e.fault == nil && !e.vars.IsValid() {
		e.fault = &dynamo.SimulationError{
			Step:    e.ticks,
			Time:    e.t,
			State:   e.vars.Clone(),
			Wrapped: dynamo.ErrInvalidState,
		}
	}
}

// Output returns the named output channel, or 0 for unknown names.
func (e *Engine) Output(name string) float64 {
	if e.closed {
		return 0
	}
	if fn, ok := outputs[name]; ok {
		return fn(&e.model.State)
	}
	return 0
}

// Reset restores x, y, z to the configured initial conditions and clears
// the tick counter and any fault. Parameters and input are kept.
func (e *Engine) Reset() {
	if e.closed {
		return
	}
	s := &e.model.State
	s.X, s.Y, s.Z = e.initial[0], e.initial[1], e.initial[2]
	e.ticks = 0
	e.t = 0
	e.fault = nil
}

// Close tears the engine down. Every later call is a no-op.
func (e *Engine) Close() {
	e.closed = true
	e.integ = nil
}

func (e *Engine) Closed() bool { return e.closed }

// Fault returns the first non-finite state seen when the finite check is
// enabled.
func (e *Engine) Fault() error { return e.fault }

// Model returns a copy of the current state and parameters.
func (e *Engine) Model() Model { return e.model }

func (e *Engine) State() State { return e.model.State }

func (e *Engine) Params() Parameters { return e.model.Params }

// Ticks returns the number of Step calls since construction or Reset.
func (e *Engine) Ticks() int { return e.ticks }

// Time returns the elapsed model time.
func (e *Engine) Time() float64 { return e.t }

// IntegratorName reports the stepping scheme in use.
func (e *Engine) IntegratorName() string {
	if e.integ == nil {
		return ""
	}
	return e.integ.Name()
}

// GetParams implements dynamo.Configurable.
func (e *Engine) GetParams() map[string]float64 {
	p := e.model.Params
	s := e.model.State
	burstSync := 0.0
	if p.BurstSync {
		burstSync = 1
	}
	return map[string]float64{
		KeyX:             s.X,
		KeyY:             s.Y,
		KeyZ:             s.Z,
		KeyE:             p.E,
		KeyMu:            p.Mu,
		KeyS:             p.S,
		KeyVh:            p.Vh,
		KeyBurstDuration: p.BurstDuration,
		KeyPeriodSeconds: p.PeriodSeconds,
		KeySPoints:       float64(p.SamplePoints),
		KeyBurstSync:     burstSync,
	}
}

// SetParam implements dynamo.Configurable.
func (e *Engine) SetParam(name string, value float64) error {
	if !e.Configure(name, value) {
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
