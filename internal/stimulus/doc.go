// Package stimulus generates the synaptic current fed to a neuron on each
// host tick.
//
//   - [None]: no current
//   - [Constant]: fixed current
//   - [Pulse]: a single rectangular pulse
//   - [Train]: periodic rectangular pulses
//   - [Sine]: sinusoidal current around an offset
//   - [Clamp]: PID feedback holding the membrane near a target potential
//
// Build one from a [Config] with [New].
package stimulus
