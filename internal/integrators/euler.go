package integrators

import "github.com/san-kum/hrsim/internal/dynamo"

// Euler is the explicit first-order scheme. It is the cheapest stepper and
// the least accurate; the Hindmarsh-Rose fast subsystem needs small dt with it.
type Euler struct {
	dx dynamo.State
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) {
	if len(e.dx) != len(x) {
		e.dx = make(dynamo.State, len(x))
	}
	sys.Derive(e.dx, x, u, t)
	for i := range x {
		x[i] += dt * e.dx[i]
	}
}
