package spectrum

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/spectrum-eq/dsp/window"
)

// ErrInvalidTone is returned by ToneAmplitude for unusable arguments.
var ErrInvalidTone = errors.New("spectrum: tone frequency must be in (0, sampleRate/2)")

// ToneAmplitude estimates the peak amplitude of a sinusoid at freq in
// input using a Hann-weighted Goertzel evaluation.
func ToneAmplitude(input []float64, freq, sampleRate float64) (float64, error) {
	if !(sampleRate > 0) || !(freq > 0) || freq >= sampleRate/2 {
		return 0, fmt.Errorf("%w: f=%v fs=%v", ErrInvalidTone, freq, sampleRate)
	}

	if len(input) == 0 {
		return 0, nil
	}

	weighted := window.Generate(window.TypeHann, len(input), window.WithPeriodic())

	sum := 0.0
	for _, w := range weighted {
		sum += w
	}

	vecmath.MulBlockInPlace(weighted, input)

	coeff := 2 * math.Cos(2*math.Pi*freq/sampleRate)

	var s0, s1 float64
	for _, x := range weighted {
		s0, s1 = x+coeff*s0-s1, s0
	}

	power := s0*s0 + s1*s1 - coeff*s0*s1
	if power <= 0 {
		return 0, nil
	}

	return 2 * math.Sqrt(power) / sum, nil
}
