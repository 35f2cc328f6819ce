package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided power spectrum of samples taken at
// sampleRate Hz. The mean is removed and a Hann window applied first.
func PowerSpectrum(samples []float64, sampleRate float64) (freqs, power []float64) {
	n := len(samples)
	if n < 2 || !(sampleRate > 0) {
		return nil, nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(n)

	buf := make([]complex128, n)
	for i, v := range samples {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		buf[i] = complex((v-mean)*window, 0)
	}
	spectrum := fft.FFT(buf)

	half := n/2 + 1
	freqs = make([]float64, half)
	power = make([]float64, half)
	for k := 0; k < half; k++ {
		mag := cmplx.Abs(spectrum[k])
		freqs[k] = float64(k) * sampleRate / float64(n)
		power[k] = mag * mag / float64(n)
	}
	return freqs, power
}

// DominantFrequency returns the non-DC frequency with the most power, or 0
// for a trace that does not vary.
func DominantFrequency(samples []float64, sampleRate float64) float64 {
	if flat(samples) {
		return 0
	}
	freqs, power := PowerSpectrum(samples, sampleRate)
	best, maxP := 0, 0.0
	for k := 1; k < len(power); k++ {
		if power[k] > maxP {
			best, maxP = k, power[k]
		}
	}
	if best == 0 {
		return 0
	}
	return freqs[best]
}

// flat reports whether the samples span no more than rounding noise.
func flat(samples []float64) bool {
	if len(samples) == 0 {
		return true
	}
	lo, hi := samples[0], samples[0]
	for _, v := range samples[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return hi-lo <= 1e-12*math.Max(1, math.Max(math.Abs(lo), math.Abs(hi)))
}
