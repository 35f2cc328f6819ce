package metrics

import "math"

// Stability is the fraction of samples that are finite and within
// threshold of zero.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(v, u, t float64) {
	s.samples++
	if math.IsNaN(v) || math.Abs(v) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// InputEffort is the mean absolute injected current.
type InputEffort struct {
	name    string
	sum     float64
	samples int
}

func NewInputEffort() *InputEffort {
	return &InputEffort{name: "input_effort"}
}

func (c *InputEffort) Name() string { return c.name }

func (c *InputEffort) Observe(v, u, t float64) {
	c.sum += math.Abs(u)
	c.samples++
}

func (c *InputEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *InputEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
