// Package dynamo provides the numerical primitives shared by the neuron
// engine and the analysis tooling.
//
// The package defines the interfaces for fixed-step integration of ordinary
// differential equations:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: fixed-step numerical integrator
//   - [Configurable]: named-parameter access for tooling
//
// Both [System.Derive] and [Integrator.Step] work in place on caller-owned
// buffers so a stepping loop does not allocate once its scratch space has
// been sized.
//
// # Example
//
//	hr := neuron.New()
//	hr.Configure("period_seconds", 0.001)
//	hr.Step(0.001)
//	v := hr.Output("x")
//
// # Thread Safety
//
// Integrators hold scratch buffers and are NOT thread-safe. Use one
// integrator per goroutine.
package dynamo
