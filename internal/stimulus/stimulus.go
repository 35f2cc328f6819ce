package stimulus

import (
	"fmt"
	"math"
)

// Stimulus returns the injected current at time t (seconds).
type Stimulus interface {
	Current(t float64) float64
}

// Feedback is implemented by stimuli that react to the membrane potential.
// Callers that know x should prefer it over Current.
type Feedback interface {
	Stimulus
	Respond(t, x float64) float64
}

type None struct{}

func (None) Current(float64) float64 { return 0 }

type Constant struct {
	Amplitude float64
}

func (c Constant) Current(float64) float64 { return c.Amplitude }

// Pulse is on for Width seconds starting at Start.
type Pulse struct {
	Amplitude float64
	Start     float64
	Width     float64
}

func (p Pulse) Current(t float64) float64 {
	if t >= p.Start && t < p.Start+p.Width {
		return p.Amplitude
	}
	return 0
}

// Train repeats a pulse of Width every Period seconds from Start.
type Train struct {
	Amplitude float64
	Start     float64
	Period    float64
	Width     float64
}

func (p Train) Current(t float64) float64 {
	if t < p.Start || p.Period <= 0 {
		return 0
	}
	if math.Mod(t-p.Start, p.Period) < p.Width {
		return p.Amplitude
	}
	return 0
}

type Sine struct {
	Amplitude float64
	Frequency float64
	Offset    float64
}

func (s Sine) Current(t float64) float64 {
	return s.Offset + s.Amplitude*math.Sin(2*math.Pi*s.Frequency*t)
}

// Clamp drives x towards Target. Positive synaptic current hyperpolarises
// the model, so the controller output is negated.
type Clamp struct {
	Kp, Ki, Kd float64
	Target     float64

	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewClamp(kp, ki, kd, target float64) *Clamp {
	return &Clamp{Kp: kp, Ki: ki, Kd: kd, Target: target, first: true}
}

func (c *Clamp) Current(float64) float64 { return 0 }

func (c *Clamp) Respond(t, x float64) float64 {
	err := c.Target - x

	if c.first {
		c.prevErr = err
		c.prevT = t
		c.first = false
		return -c.Kp * err
	}

	dt := t - c.prevT
	if dt <= 0 {
		return -c.Kp * err
	}
	c.integral += err * dt
	derivative := (err - c.prevErr) / dt
	c.prevErr = err
	c.prevT = t
	return -(c.Kp*err + c.Ki*c.integral + c.Kd*derivative)
}

func (c *Clamp) Reset() {
	c.integral, c.prevErr, c.prevT = 0, 0, 0
	c.first = true
}

// Config selects and parameterises a stimulus.
type Config struct {
	Kind      string  `yaml:"kind" json:"kind"`
	Amplitude float64 `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`
	Start     float64 `yaml:"start,omitempty" json:"start,omitempty"`
	Width     float64 `yaml:"width,omitempty" json:"width,omitempty"`
	Period    float64 `yaml:"period,omitempty" json:"period,omitempty"`
	Frequency float64 `yaml:"frequency,omitempty" json:"frequency,omitempty"`
	Offset    float64 `yaml:"offset,omitempty" json:"offset,omitempty"`
	Kp        float64 `yaml:"kp,omitempty" json:"kp,omitempty"`
	Ki        float64 `yaml:"ki,omitempty" json:"ki,omitempty"`
	Kd        float64 `yaml:"kd,omitempty" json:"kd,omitempty"`
	Target    float64 `yaml:"target,omitempty" json:"target,omitempty"`
}

// Kinds lists the recognised Config.Kind values.
func Kinds() []string {
	return []string{"none", "constant", "pulse", "train", "sine", "clamp"}
}

// New builds the stimulus described by cfg. An empty kind means none.
func New(cfg Config) (Stimulus, error) {
	switch cfg.Kind {
	case "", "none":
		return None{}, nil
	case "constant":
		return Constant{Amplitude: cfg.Amplitude}, nil
	case "pulse":
		if cfg.Width <= 0 {
			return nil, fmt.Errorf("stimulus: pulse width must be positive, got %g", cfg.Width)
		}
		return Pulse{Amplitude: cfg.Amplitude, Start: cfg.Start, Width: cfg.Width}, nil
	case "train":
		if cfg.Period <= 0 || cfg.Width <= 0 {
			return nil, fmt.Errorf("stimulus: train needs positive period and width")
		}
		if cfg.Width > cfg.Period {
			return nil, fmt.Errorf("stimulus: train width %g exceeds period %g", cfg.Width, cfg.Period)
		}
		return Train{Amplitude: cfg.Amplitude, Start: cfg.Start, Period: cfg.Period, Width: cfg.Width}, nil
	case "sine":
		if cfg.Frequency < 0 {
			return nil, fmt.Errorf("stimulus: negative frequency %g", cfg.Frequency)
		}
		return Sine{Amplitude: cfg.Amplitude, Frequency: cfg.Frequency, Offset: cfg.Offset}, nil
	case "clamp":
		return NewClamp(cfg.Kp, cfg.Ki, cfg.Kd, cfg.Target), nil
	default:
		return nil, fmt.Errorf("stimulus: unknown kind %q", cfg.Kind)
	}
}
