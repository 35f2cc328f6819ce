package neuron

import "github.com/san-kum/hrsim/internal/dynamo"

// xRest is the resting potential the adaptation current relaxes towards.
const xRest = -1.6

// hindmarshRose is the model right-hand side. It reads parameters through a
// pointer so configuration changes apply to the next derivative evaluation.
// u[0] is the synaptic current.
type hindmarshRose struct {
	p *Parameters
}

func (h hindmarshRose) StateDim() int   { return 3 }
func (h hindmarshRose) ControlDim() int { return 1 }

func (h hindmarshRose) Derive(dst, in dynamo.State, u dynamo.Control, _ float64) {
	p := h.p
	x, y, z := in[0], in[1], in[2]
	iSyn := 0.0
	if len(u) > 0 {
		iSyn = u[0]
	}

	dst[0] = y + 3.0*x*x - x*x*x - p.Vh*z + p.E - iSyn
	dst[1] = 1.0 - 5.0*x*x - y
	dst[2] = p.Mu * (p.S*(x-xRest) - p.Vh*z) / h.slowScale()
}

// slowScale stretches the adaptation time scale by the burst duration. In
// burst-sync mode the duration is realised through timing instead.
func (h hindmarshRose) slowScale() float64 {
	if h.p.BurstSync || h.p.BurstDuration <= 0 {
		return 1
	}
	return h.p.BurstDuration
}

// NewSystem returns the Hindmarsh-Rose equations over params as a
// dynamo.System with state [x, y, z] and control [i_syn].
func NewSystem(params *Parameters) dynamo.System {
	return hindmarshRose{p: params}
}
