package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/hrsim/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Derive(dst, x dynamo.State, u dynamo.Control, t float64) {
	dst[0] = x[1]
	dst[1] = -x[0]
}

func (h *harmonicOscillator) StateDim() int   { return 2 }
func (h *harmonicOscillator) ControlDim() int { return 0 }

func TestIntegratorAccuracy(t *testing.T) {
	tests := []struct {
		integ dynamo.Integrator
		tol   float64
	}{
		{NewEuler(), 2e-2},
		{NewRK4(), 1e-6},
		{NewRK5(), 1e-8},
	}

	dt := 0.01
	steps := 100
	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	for _, tt := range tests {
		t.Run(tt.integ.Name(), func(t *testing.T) {
			x := dynamo.State{1.0, 0.0}
			for i := 0; i < steps; i++ {
				tt.integ.Step(&harmonicOscillator{}, x, nil, float64(i)*dt, dt)
			}

			if math.Abs(x[0]-expectedX) > tt.tol {
				t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
			}
			if math.Abs(x[1]-expectedV) > tt.tol {
				t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
			}
		})
	}
}

func TestRK5MoreAccurateThanRK4(t *testing.T) {
	rk4 := NewRK4()
	rk5 := NewRK5()
	dyn := &harmonicOscillator{}

	x4 := dynamo.State{1.0, 0.0}
	x5 := dynamo.State{1.0, 0.0}
	dt := 0.1
	for i := 0; i < 100; i++ {
		rk4.Step(dyn, x4, nil, float64(i)*dt, dt)
		rk5.Step(dyn, x5, nil, float64(i)*dt, dt)
	}

	exact := dynamo.State{math.Cos(10), -math.Sin(10)}
	if e5, e4 := x5.Distance(exact), x4.Distance(exact); e5 >= e4 {
		t.Errorf("rk5 error %.3e not below rk4 error %.3e", e5, e4)
	}
}

func TestStepWithZeroDtIsIdentity(t *testing.T) {
	for _, name := range Names() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		x := dynamo.State{0.3, -0.7}
		integ.Step(&harmonicOscillator{}, x, nil, 0, 0)
		if x[0] != 0.3 || x[1] != -0.7 {
			t.Errorf("%s: zero dt changed state to %v", name, x)
		}
	}
}

func TestRegistry(t *testing.T) {
	integ, err := New("")
	if err != nil {
		t.Fatalf("default integrator: %v", err)
	}
	if integ.Name() != Default {
		t.Errorf("expected default %s, got %s", Default, integ.Name())
	}

	if _, err := New("verlet"); !errors.Is(err, dynamo.ErrUnknownIntegrator) {
		t.Errorf("expected ErrUnknownIntegrator, got %v", err)
	}

	names := Names()
	if len(names) != 3 || names[0] != "euler" || names[2] != "rk5" {
		t.Errorf("unexpected names: %v", names)
	}
}
