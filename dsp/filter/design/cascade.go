package design

import (
	"math"

	"github.com/cwbudde/spectrum-eq/dsp/filter/biquad"
)

// MaxCutSections is the number of second-order sections reserved for a cut
// filter. A slope of k sections realizes 12·k dB/octave.
const MaxCutSections = 4

// CutSections holds the fixed set of sections of one cut filter. Sections at
// index >= slope are identity.
type CutSections [MaxCutSections]biquad.Coefficients

// Slice returns the sections as a slice backed by the array.
func (s *CutSections) Slice() []biquad.Coefficients {
	return s[:]
}

// ButterworthLPSections designs a lowpass Butterworth response of order
// 2·slope as slope cascaded biquads, lowest Q first. The slope is clamped
// to [1, MaxCutSections].
func ButterworthLPSections(freq float64, slope int, sampleRate float64) CutSections {
	return butterworthSections(freq, slope, sampleRate, Lowpass)
}

// ButterworthHPSections is the highpass counterpart of ButterworthLPSections.
func ButterworthHPSections(freq float64, slope int, sampleRate float64) CutSections {
	return butterworthSections(freq, slope, sampleRate, Highpass)
}

// StackedLPSections designs slope identical second-order Butterworth
// lowpass sections (Q = 1/√2). Raising the slope only activates one more
// section and leaves the others untouched.
func StackedLPSections(freq float64, slope int, sampleRate float64) CutSections {
	return stackedSections(freq, slope, sampleRate, Lowpass)
}

// StackedHPSections is the highpass counterpart of StackedLPSections.
func StackedHPSections(freq float64, slope int, sampleRate float64) CutSections {
	return stackedSections(freq, slope, sampleRate, Highpass)
}

// ButterworthQ returns the quality factor of section index (0-based) in the
// even-order Butterworth decomposition of the given order. Index 0 is the
// lowest Q.
func ButterworthQ(order, index int) float64 {
	n2 := order / 2
	k := n2 - 1 - index
	theta := math.Pi * float64(2*k+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s <= 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

type sectionDesigner func(freq, q, sampleRate float64) biquad.Coefficients

func butterworthSections(freq float64, slope int, sampleRate float64, fn sectionDesigner) CutSections {
	slope = clampSlope(slope)
	order := 2 * slope

	var out CutSections
	for i := range out {
		if i >= slope {
			out[i] = biquad.Identity()
			continue
		}

		out[i] = fn(freq, ButterworthQ(order, i), sampleRate)
	}

	return out
}

func stackedSections(freq float64, slope int, sampleRate float64, fn sectionDesigner) CutSections {
	slope = clampSlope(slope)
	c := fn(freq, defaultQ, sampleRate)

	var out CutSections
	for i := range out {
		if i >= slope {
			out[i] = biquad.Identity()
			continue
		}

		out[i] = c
	}

	return out
}

func clampSlope(slope int) int {
	return min(max(slope, 1), MaxCutSections)
}
