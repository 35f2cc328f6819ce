package metrics

import "math"

// DefaultSpikeThreshold suits the membrane potential in model units, where
// spikes peak near 2 and rest sits below -1.
const DefaultSpikeThreshold = 1.0

// crossing detects upward threshold crossings.
type crossing struct {
	threshold float64
	prev      float64
	primed    bool
}

func (c *crossing) step(v float64) bool {
	up := c.primed && c.prev < c.threshold && v >= c.threshold
	c.prev = v
	c.primed = !math.IsNaN(v)
	return up
}

func (c *crossing) reset() {
	c.prev = 0
	c.primed = false
}

// SpikeCounter counts upward crossings of a threshold.
type SpikeCounter struct {
	name  string
	det   crossing
	times []float64
}

func NewSpikeCounter(threshold float64) *SpikeCounter {
	return &SpikeCounter{name: "spikes", det: crossing{threshold: threshold}}
}

func (s *SpikeCounter) Name() string { return s.name }

func (s *SpikeCounter) Observe(v, u, t float64) {
	if s.det.step(v) {
		s.times = append(s.times, t)
	}
}

func (s *SpikeCounter) Value() float64 { return float64(len(s.times)) }

// SpikeTimes returns the crossing times seen so far.
func (s *SpikeCounter) SpikeTimes() []float64 {
	return append([]float64(nil), s.times...)
}

func (s *SpikeCounter) Reset() {
	s.det.reset()
	s.times = s.times[:0]
}

// FiringRate reports spikes per second over the observed span.
type FiringRate struct {
	name   string
	det    crossing
	spikes int
	lastT  float64
}

func NewFiringRate(threshold float64) *FiringRate {
	return &FiringRate{name: "firing_rate_hz", det: crossing{threshold: threshold}}
}

func (f *FiringRate) Name() string { return f.name }

func (f *FiringRate) Observe(v, u, t float64) {
	if f.det.step(v) {
		f.spikes++
	}
	f.lastT = t
}

func (f *FiringRate) Value() float64 {
	if f.lastT <= 0 {
		return 0
	}
	return float64(f.spikes) / f.lastT
}

func (f *FiringRate) Reset() {
	f.det.reset()
	f.spikes = 0
	f.lastT = 0
}
