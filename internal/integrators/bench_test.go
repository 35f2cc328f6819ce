package integrators

import (
	"testing"

	"github.com/san-kum/hrsim/internal/dynamo"
)

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator) {
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(dyn, x, nil, 0, 0.01)
	}
}

func BenchmarkEuler(b *testing.B) { benchmarkIntegrator(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)   { benchmarkIntegrator(b, NewRK4()) }
func BenchmarkRK5(b *testing.B)   { benchmarkIntegrator(b, NewRK5()) }

func TestStepDoesNotAllocate(t *testing.T) {
	for _, name := range Names() {
		integ, _ := New(name)
		dyn := &harmonicOscillator{}
		x := dynamo.State{1.0, 0.0}
		integ.Step(dyn, x, nil, 0, 0.01)

		allocs := testing.AllocsPerRun(100, func() {
			integ.Step(dyn, x, nil, 0, 0.01)
		})
		if allocs != 0 {
			t.Errorf("%s: %v allocations per step", name, allocs)
		}
	}
}
