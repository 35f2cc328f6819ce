package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/hrsim/internal/dynamo"
)

// Default is the scheme the reference neuron model was tuned with.
const Default = "rk5"

var registry = map[string]func() dynamo.Integrator{
	"euler": func() dynamo.Integrator { return NewEuler() },
	"rk4":   func() dynamo.Integrator { return NewRK4() },
	"rk5":   func() dynamo.Integrator { return NewRK5() },
}

// New returns a fresh integrator for name. An empty name selects Default.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
