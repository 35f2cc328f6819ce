package metrics

import "github.com/san-kum/hrsim/internal/sim"

// DefaultBurstGap separates bursts in seconds of host time.
const DefaultBurstGap = 0.05

// Standard returns the metric set the CLI attaches to every run.
func Standard(threshold float64) []sim.Metric {
	return []sim.Metric{
		NewSpikeCounter(threshold),
		NewFiringRate(threshold),
		NewBurstDetector(threshold, DefaultBurstGap),
		NewStability(1e3),
		NewInputEffort(),
	}
}
