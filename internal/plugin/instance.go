package plugin

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/hrsim/internal/dynamo"
	"github.com/san-kum/hrsim/internal/neuron"
)

var inputs = []string{neuron.InputSynaptic}

// Instance is one host-owned neuron. Calls are serialised so a host may
// configure it from a control thread while the scheduler ticks it.
type Instance struct {
	mu      sync.Mutex
	variant Variant
	engine  *neuron.Engine
	closed  bool
}

// NewInstance builds an instance of the named variant. Extra engine options
// are applied after the variant's own.
func NewInstance(variantID string, opts ...neuron.Option) (*Instance, error) {
	v, ok := Lookup(variantID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variantID)
	}
	all := append([]neuron.Option{neuron.WithSelfCorrect(v.SelfCorrect)}, opts...)
	return &Instance{variant: v, engine: neuron.New(all...)}, nil
}

func (in *Instance) Variant() Variant { return in.variant }

func (in *Instance) Meta() Meta {
	return Meta{Name: in.variant.Name, DefaultVars: defaultVars()}
}

func (in *Instance) Inputs() []string {
	return append([]string(nil), inputs...)
}

func (in *Instance) Outputs() []string {
	return append([]string(nil), in.variant.Outputs...)
}

func (in *Instance) Behavior() Behavior {
	return Behavior{
		SupportsStartStop: true,
		SupportsRestart:   true,
		ExtendableInputs:  ExtendableInputs{Type: "none"},
		LoadsStarted:      true,
	}
}

func (in *Instance) UISchema() UISchema {
	return UISchema{
		Outputs:   in.Outputs(),
		Inputs:    in.Inputs(),
		Variables: []string{neuron.KeyX, neuron.KeyY, neuron.KeyZ},
	}
}

// SetConfigJSON applies a JSON object of numeric settings and returns the
// members that were not applied, sorted. Non-numeric members are skipped.
// Malformed input leaves the instance untouched.
func (in *Instance) SetConfigJSON(data []byte) ([]string, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}
	if raw == nil {
		return nil, ErrBadConfig
	}

	cfg := make(map[string]float64, len(raw))
	var skipped []string
	for k, v := range raw {
		if f, ok := v.(float64); ok {
			cfg[k] = f
		} else {
			skipped = append(skipped, k)
		}
	}
	ignored, err := in.Configure(cfg)
	if err != nil {
		return nil, err
	}
	out := append(skipped, ignored...)
	sort.Strings(out)
	return out, nil
}

// Configure applies cfg and returns the keys the engine did not recognise.
func (in *Instance) Configure(cfg map[string]float64) ([]string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return nil, ErrClosed
	}
	return in.engine.ConfigureAll(cfg), nil
}

func (in *Instance) SetInput(name string, value float64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return false
	}
	return in.engine.SetInput(name, value)
}

// Process advances the neuron by one host tick. The tick index is not used
// by the model.
func (in *Instance) Process(_ uint64, periodSeconds float64) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	in.engine.Step(periodSeconds)
}

func (in *Instance) Output(name string) float64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return 0
	}
	return in.engine.Output(name)
}

// Snapshot returns a copy of the engine's model.
func (in *Instance) Snapshot() neuron.Model {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.engine.Model()
}

// Fault reports the engine's first non-finite state, if checking was
// enabled.
func (in *Instance) Fault() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.engine.Fault()
}

// GetParams exposes the engine's tunable values.
func (in *Instance) GetParams() map[string]float64 {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.engine.GetParams()
}

// SetParam sets one value, rejecting names the engine does not know.
func (in *Instance) SetParam(name string, value float64) error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return ErrClosed
	}
	return in.engine.SetParam(name, value)
}

func (in *Instance) Restart() {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	in.engine.Reset()
}

func (in *Instance) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.closed = true
	in.engine.Close()
}

var _ dynamo.Configurable = (*Instance)(nil)
