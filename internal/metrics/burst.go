package metrics

// BurstDetector groups spikes into bursts: a silence longer than MaxGap
// seconds ends the current burst. Value is the number of bursts.
type BurstDetector struct {
	name   string
	det    crossing
	maxGap float64

	lastSpike   float64
	haveSpike   bool
	starts      []float64
	spikeCounts []int
}

func NewBurstDetector(threshold, maxGap float64) *BurstDetector {
	return &BurstDetector{
		name:   "bursts",
		det:    crossing{threshold: threshold},
		maxGap: maxGap,
	}
}

func (b *BurstDetector) Name() string { return b.name }

func (b *BurstDetector) Observe(v, u, t float64) {
	if !b.det.step(v) {
		return
	}
	if !b.haveSpike || t-b.lastSpike > b.maxGap {
		b.starts = append(b.starts, t)
		b.spikeCounts = append(b.spikeCounts, 0)
	}
	b.spikeCounts[len(b.spikeCounts)-1]++
	b.lastSpike = t
	b.haveSpike = true
}

func (b *BurstDetector) Value() float64 { return float64(len(b.starts)) }

// MeanPeriod is the mean interval between burst onsets, or 0 with fewer
// than two bursts.
func (b *BurstDetector) MeanPeriod() float64 {
	if len(b.starts) < 2 {
		return 0
	}
	return (b.starts[len(b.starts)-1] - b.starts[0]) / float64(len(b.starts)-1)
}

// MeanSpikesPerBurst averages the spike count of every burst seen.
func (b *BurstDetector) MeanSpikesPerBurst() float64 {
	if len(b.spikeCounts) == 0 {
		return 0
	}
	total := 0
	for _, n := range b.spikeCounts {
		total += n
	}
	return float64(total) / float64(len(b.spikeCounts))
}

func (b *BurstDetector) Reset() {
	b.det.reset()
	b.lastSpike = 0
	b.haveSpike = false
	b.starts = b.starts[:0]
	b.spikeCounts = b.spikeCounts[:0]
}
