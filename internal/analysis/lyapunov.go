package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/hrsim/internal/neuron"
)

// LyapunovExponent estimates the largest Lyapunov exponent in inverse model
// time units. A reference and a perturbed engine run side by side; after
// every tick their separation is measured and the perturbed one is pulled
// back to distance perturbation along the same direction.
func LyapunovExponent(p Probe, ticks int, perturbation float64) (float64, error) {
	if ticks <= 0 {
		return 0, fmt.Errorf("analysis: ticks must be positive, got %d", ticks)
	}
	if !(perturbation > 0) {
		return 0, fmt.Errorf("analysis: perturbation must be positive, got %g", perturbation)
	}

	ref, err := p.engine()
	if err != nil {
		return 0, err
	}
	pert, err := p.engine()
	if err != nil {
		return 0, err
	}
	s0 := ref.State()
	pert.Configure(neuron.KeyX, s0.X+perturbation)

	sumLog := 0.0
	for i := 0; i < ticks; i++ {
		p.step(ref)
		p.step(pert)

		a, b := ref.State(), pert.State()
		dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
		sep := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if math.IsNaN(sep) || math.IsInf(sep, 0) {
			return 0, fmt.Errorf("analysis: trajectory diverged at tick %d", i+1)
		}
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / perturbation)

		scale := perturbation / sep
		pert.Configure(neuron.KeyX, a.X+dx*scale)
		pert.Configure(neuron.KeyY, a.Y+dy*scale)
		pert.Configure(neuron.KeyZ, a.Z+dz*scale)
	}

	if ref.Time() == 0 {
		return 0, nil
	}
	return sumLog / ref.Time(), nil
}
