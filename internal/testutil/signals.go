// Package testutil holds deterministic signals and comparison helpers
// shared by the equalizer tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine returns length samples of a sine starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude]
// from a fixed seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// Impulse returns a unit impulse at pos. An out-of-range pos gives silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// Stereo returns two independent copies of src, shaped like a host buffer.
func Stereo(src []float64) [][]float64 {
	return [][]float64{
		append([]float64(nil), src...),
		append([]float64(nil), src...),
	}
}

// ForEachBlock calls fn with consecutive sub-slices of every channel, at
// most block samples long. All channels must have the same length.
func ForEachBlock(channels [][]float64, block int, fn func([][]float64)) {
	if len(channels) == 0 || block <= 0 {
		return
	}

	view := make([][]float64, len(channels))
	for off := 0; off < len(channels[0]); off += block {
		end := min(off+block, len(channels[0]))
		for ch := range channels {
			view[ch] = channels[ch][off:end]
		}

		fn(view)
	}
}
