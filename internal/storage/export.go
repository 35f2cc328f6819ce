package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/hrsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Times   []float64            `json:"times"`
	Inputs  []float64            `json:"inputs"`
	Outputs map[string][]float64 `json:"outputs"`
}

// ExportJSON writes a run's metadata and every channel as one document.
func ExportJSON(w io.Writer, meta RunMetadata, result *sim.Result) error {
	data := ExportData{
		RunMetadata: meta,
		Times:       result.Times,
		Inputs:      result.Inputs,
		Outputs:     make(map[string][]float64, len(result.Channels)),
	}
	for _, c := range result.Channels {
		data.Outputs[c] = result.Channel(c)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
