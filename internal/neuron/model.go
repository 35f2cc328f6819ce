package neuron

// Default initial conditions and parameters.
const (
	DefaultX             = -0.9013
	DefaultY             = -3.1594
	DefaultZ             = 3.24782
	DefaultE             = 3.0
	DefaultMu            = 0.006
	DefaultS             = 4.0
	DefaultVh            = 1.0
	DefaultBurstDuration = 1.0
	DefaultSamplePoints  = 1

	// MaxSamplePoints bounds the sub-steps performed in one tick.
	MaxSamplePoints = 10000
)

// State is the dynamical state of the neuron plus the held driving current.
type State struct {
	X float64 // fast membrane potential
	Y float64 // fast recovery current
	Z float64 // slow adaptation current

	SynapticInput float64
}

// Parameters are the tunable constants of the model and its timing.
type Parameters struct {
	E  float64 // excitability
	Mu float64 // adaptation time-constant scale
	S  float64 // adaptation coupling strength
	Vh float64 // adaptation reference scale

	// Dt is the sub-step size; derived, never set directly.
	Dt            float64
	BurstDuration float64
	PeriodSeconds float64
	SamplePoints  int
	BurstSync     bool
}

// Model is the state and parameters of one neuron. The two are created,
// mutated and discarded together.
type Model struct {
	State  State
	Params Parameters
}

func DefaultState() State {
	return State{
		X: DefaultX,
		Y: DefaultY,
		Z: DefaultZ,
	}
}

func DefaultParameters() Parameters {
	return Parameters{
		E:             DefaultE,
		Mu:            DefaultMu,
		S:             DefaultS,
		Vh:            DefaultVh,
		BurstDuration: DefaultBurstDuration,
		SamplePoints:  DefaultSamplePoints,
	}
}

func DefaultModel() Model {
	return Model{
		State:  DefaultState(),
		Params: DefaultParameters(),
	}
}
