package sim

// Node is a tickable neuron as seen by the host scheduler.
type Node interface {
	SetInput(name string, value float64) bool
	Process(tick uint64, periodSeconds float64)
	Output(name string) float64
	Outputs() []string
}

// Faulter is implemented by nodes that can report a numerical fault.
type Faulter interface {
	Fault() error
}

// Metric accumulates a scalar over a run from the probe channel v and the
// injected current u at time t.
type Metric interface {
	Name() string
	Observe(v, u, t float64)
	Value() float64
	Reset()
}

// Observer sees every tick after the node has been processed. outputs is
// reused between calls.
type Observer interface {
	OnTick(tick uint64, t float64, input float64, outputs []float64)
}

type Config struct {
	Ticks         int
	PeriodSeconds float64

	// Probe is the output channel metrics observe. Empty means the node's
	// first output.
	Probe string

	// StopOnInvalid ends the run at the first non-finite output.
	StopOnInvalid bool
}

// Result holds one row per tick. Samples is row-major with len(Channels)
// values per row.
type Result struct {
	Channels   []string
	Times      []float64
	Inputs     []float64
	Samples    []float64
	Metrics    map[string]float64
	TicksTaken int
}

func (r *Result) Row(i int) []float64 {
	n := len(r.Channels)
	return r.Samples[i*n : (i+1)*n]
}

// Channel returns a copy of one output column, or nil if name was not
// recorded.
func (r *Result) Channel(name string) []float64 {
	col := -1
	for i, c := range r.Channels {
		if c == name {
			col = i
			break
		}
	}
	if col < 0 {
		return nil
	}
	n := len(r.Channels)
	out := make([]float64, r.TicksTaken)
	for i := range out {
		out[i] = r.Samples[i*n+col]
	}
	return out
}
