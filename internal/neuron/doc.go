// Package neuron implements a single Hindmarsh-Rose neuron as a tick-driven
// simulation node.
//
// A [Model] holds the three dynamical variables and every tunable parameter.
// An [Engine] owns one model and is its only mutator: it maps configuration
// keys onto parameters, the synaptic input channel onto the driving current,
// and state onto named outputs, and it advances the equations
//
//	dx/dt = y + 3x² - x³ - vh·z + e - i_syn
//	dy/dt = 1 - 5x² - y
//	dz/dt = mu·(s·(x + 1.6) - vh·z) / burst_duration
//
// by SamplePoints fixed sub-steps per host tick.
//
// # Timing
//
// In the default period mode dt is always period_seconds / s_points. With
// burst_sync enabled the engine instead picks dt and the sub-step count from
// a calibration table so one burst lasts burst_duration seconds of host time.
//
// # Thread Safety
//
// An Engine is NOT safe for concurrent use. Hosts that drive one engine from
// several goroutines must serialise every call; see package plugin.
package neuron
