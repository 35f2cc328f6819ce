package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Distance returns the Euclidean distance between s and other over their
// common prefix.
func (s State) Distance(other State) float64 {
	sum := 0.0
	for i := range s {
		if i >= len(other) {
			break
		}
		d := s[i] - other[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

type Control []float64

// System is an ODE right-hand side. Derive writes dX/dt into dst, which has
// the same length as x.
type System interface {
	Derive(dst, x State, u Control, t float64)
	StateDim() int
	ControlDim() int
}

// Integrator advances x by one step of size dt in place.
type Integrator interface {
	Name() string
	Step(sys System, x State, u Control, t, dt float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
