// Package analysis characterises neuron dynamics offline.
//
//   - [PowerSpectrum], [DominantFrequency]: windowed FFT of a recorded trace
//   - [Bifurcation]: sweep one configuration key and record spike peaks
//   - [LyapunovExponent]: largest exponent via trajectory separation
//   - [PhasePortrait], [PoincareSection]: state-space projections
//
// Every routine drives fresh [neuron.Engine] values described by a
// [Probe], so results never depend on a caller's engine.
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	lambda, err := analysis.LyapunovExponent(probe, 200000, 1e-8)
//	if lambda > 0 {
//	    // irregular bursting
//	}
package analysis
