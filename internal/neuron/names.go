package neuron

// Configuration keys.
const (
	KeyX             = "x"
	KeyY             = "y"
	KeyZ             = "z"
	KeyE             = "e"
	KeyMu            = "mu"
	KeyS             = "s"
	KeyVh            = "vh"
	KeyBurstDuration = "burst_duration"
	KeyPeriodSeconds = "period_seconds"
	KeySPoints       = "s_points"
	KeySamplePoints  = "sample_points"
	KeyTimeIncrement = "time_increment"
	KeyBurstSync     = "burst_sync"
)

// InputSynaptic is the only input channel.
const InputSynaptic = "i_syn"

// Output channel names.
const (
	OutputX          = "x"
	OutputY          = "y"
	OutputZ          = "z"
	OutputVolts      = "Membrane potential (V)"
	OutputMillivolts = "Membrane potential (mV)"
)

var outputs = map[string]func(*State) float64{
	OutputX:          func(s *State) float64 { return s.X },
	OutputY:          func(s *State) float64 { return s.Y },
	OutputZ:          func(s *State) float64 { return s.Z },
	OutputVolts:      func(s *State) float64 { return s.X },
	OutputMillivolts: func(s *State) float64 { return s.X * 1000.0 },
}

// ConfigKeys lists the keys Configure recognises.
func ConfigKeys() []string {
	return []string{
		KeyX, KeyY, KeyZ,
		KeyE, KeyMu, KeyS, KeyVh,
		KeyBurstDuration, KeyPeriodSeconds,
		KeySPoints, KeySamplePoints, KeyTimeIncrement, KeyBurstSync,
	}
}

// IsOutput reports whether name is a readable output channel.
func IsOutput(name string) bool {
	_, ok := outputs[name]
	return ok
}
