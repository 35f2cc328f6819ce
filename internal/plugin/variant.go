package plugin

import (
	"sort"

	"github.com/san-kum/hrsim/internal/neuron"
)

// Variant describes one registered build of the neuron plugin.
type Variant struct {
	ID      string
	Name    string
	Outputs []string

	// SelfCorrect re-derives dt from the host tick period on every Process.
	SelfCorrect bool
}

const (
	VariantClassic = "hindmarsh_rose"
	VariantV2      = "hindmarsh_rose_v2"
)

var variants = map[string]Variant{
	VariantClassic: {
		ID:      VariantClassic,
		Name:    "Hindmarsh Rose",
		Outputs: []string{neuron.OutputX, neuron.OutputY, neuron.OutputZ},
	},
	VariantV2: {
		ID:          VariantV2,
		Name:        "Hindmarsh Rose v2",
		Outputs:     []string{neuron.OutputVolts, neuron.OutputMillivolts},
		SelfCorrect: true,
	},
}

// Lookup returns the variant registered under id.
func Lookup(id string) (Variant, bool) {
	v, ok := variants[id]
	return v, ok
}

// Variants lists every registered variant ordered by id.
func Variants() []Variant {
	out := make([]Variant, 0, len(variants))
	for _, v := range variants {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
