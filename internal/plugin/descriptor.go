package plugin

import (
	"encoding/json"

	"github.com/san-kum/hrsim/internal/neuron"
)

// Var is a named default shown by the host. It encodes as a
// two-element JSON array.
type Var struct {
	Name  string
	Value float64
}

func (v Var) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{v.Name, v.Value})
}

func (v *Var) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return ErrBadConfig
	}
	if err := json.Unmarshal(pair[0], &v.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &v.Value)
}

type Meta struct {
	Name        string `json:"name"`
	DefaultVars []Var  `json:"default_vars"`
}

type ExtendableInputs struct {
	Type string `json:"type"`
}

type Behavior struct {
	SupportsStartStop bool             `json:"supports_start_stop"`
	SupportsRestart   bool             `json:"supports_restart"`
	ExtendableInputs  ExtendableInputs `json:"extendable_inputs"`
	LoadsStarted      bool             `json:"loads_started"`
}

type UISchema struct {
	Outputs   []string `json:"outputs"`
	Inputs    []string `json:"inputs"`
	Variables []string `json:"variables"`
}

func defaultVars() []Var {
	m := neuron.DefaultModel()
	return []Var{
		{neuron.KeyX, m.State.X},
		{neuron.KeyY, m.State.Y},
		{neuron.KeyZ, m.State.Z},
		{neuron.KeyE, m.Params.E},
		{neuron.KeyMu, m.Params.Mu},
		{neuron.KeyS, m.Params.S},
		{neuron.KeyVh, m.Params.Vh},
		{neuron.KeyBurstDuration, m.Params.BurstDuration},
	}
}
