package design

import (
	"math"

	"github.com/cwbudde/spectrum-eq/dsp/core"
	"github.com/cwbudde/spectrum-eq/dsp/filter/biquad"
)

const (
	defaultQ = 1 / math.Sqrt2

	// MinQ is the smallest quality factor a designer will use.
	MinQ = 1e-3

	// MaxGainDB bounds the peaking gain magnitude.
	MaxGainDB = 120.0

	minFreqRatio = 1e-6
	maxFreqRatio = 0.4999
)

// Lowpass designs an RBJ lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := guardedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * guardedQ(q))

	b1 := 1 - cw
	b0 := b1 / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Highpass designs an RBJ highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := guardedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * guardedQ(q))

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Peak designs an RBJ peaking-EQ biquad with gain in dB.
//
// The cookbook amplitude is A = 10^(gainDB/40), so the linear gain at the
// centre frequency is A² = 10^(gainDB/20).
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := guardedW0(freq, sampleRate)
	if !ok {
		return biquad.Identity()
	}

	if math.IsNaN(gainDB) {
		gainDB = 0
	}

	gainDB = core.Clamp(gainDB, -MaxGainDB, MaxGainDB)

	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * guardedQ(q))
	a := math.Pow(10, gainDB/40)

	b0 := 1 + alpha*a
	b1 := -2 * cw
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cw
	a2 := 1 - alpha/a

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// guardedW0 maps freq to a normalized angular frequency. The frequency is
// clamped into the open interval (0, Nyquist). It reports false only when
// the sample rate itself is unusable.
func guardedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return 0, false
	}

	lo := minFreqRatio * sampleRate
	hi := maxFreqRatio * sampleRate

	switch {
	case math.IsNaN(freq):
		freq = lo
	case math.IsInf(freq, 1):
		freq = hi
	}

	freq = core.Clamp(freq, lo, hi)

	return 2 * math.Pi * freq / sampleRate, true
}

func guardedQ(q float64) float64 {
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return math.Max(q, MinQ)
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || !core.IsFinite(a0) {
		return biquad.Identity()
	}

	c := biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
	if !c.Finite() {
		return biquad.Identity()
	}

	return c
}
