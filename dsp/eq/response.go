package eq

import (
	"math"

	"github.com/cwbudde/spectrum-eq/dsp/core"
	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
)

// Display range of the response curve.
const (
	ResponseMinDB = -24.0
	ResponseMaxDB = 24.0
)

// LogFrequencies returns n frequencies spaced logarithmically from minHz to
// maxHz inclusive, one per pixel column.
func LogFrequencies(n int, minHz, maxHz float64) []float64 {
	if n <= 0 {
		return nil
	}

	freqs := make([]float64, n)
	for i := range freqs {
		prop := 0.0
		if n > 1 {
			prop = float64(i) / float64(n-1)
		}

		freqs[i] = core.MapToLog10(prop, minHz, maxHz)
	}

	return freqs
}

// Evaluate writes the magnitude in dB of chain at each frequency into dst
// and returns it. dst is grown if it is too short. Bypassed stages and
// identity sections contribute 0 dB.
func Evaluate(chain *MonoChain, sampleRate float64, freqs, dst []float64) []float64 {
	if cap(dst) < len(freqs) {
		dst = make([]float64, len(freqs))
	}

	dst = dst[:len(freqs)]
	for i, f := range freqs {
		dst[i] = 10 * math.Log10(chain.MagnitudeSquared(f, sampleRate))
	}

	return dst
}

// ResponseCurve is a shadow chain owned by the analysis side. It is
// designed from its own settings snapshot and never processes audio.
type ResponseCurve struct {
	chain      *MonoChain
	align      CutAlignment
	sampleRate float64
	settings   Settings
	coeffs     Coefficients
}

// NewResponseCurve returns a curve that designs cut bands with align.
func NewResponseCurve(align CutAlignment) *ResponseCurve {
	return &ResponseCurve{chain: NewMonoChain(), align: align}
}

// Update redesigns the shadow chain for s at sampleRate.
func (r *ResponseCurve) Update(s Settings, sampleRate float64) {
	r.settings = s
	r.sampleRate = sampleRate
	r.coeffs = Design(&s, sampleRate, r.align)
	r.chain.Update(&r.coeffs, &r.settings)
}

// Settings returns the snapshot the curve was last designed from.
func (r *ResponseCurve) Settings() Settings {
	return r.settings
}

// SampleRate returns the rate the curve was last designed for.
func (r *ResponseCurve) SampleRate() float64 {
	return r.sampleRate
}

// Chain exposes the shadow chain.
func (r *ResponseCurve) Chain() *MonoChain {
	return r.chain
}

// Magnitudes evaluates the curve in dB at freqs.
func (r *ResponseCurve) Magnitudes(freqs, dst []float64) []float64 {
	if !(r.sampleRate > 0) {
		if cap(dst) < len(freqs) {
			dst = make([]float64, len(freqs))
		}

		dst = dst[:len(freqs)]
		clear(dst)

		return dst
	}

	return Evaluate(r.chain, r.sampleRate, freqs, dst)
}

// Path maps the curve onto bounds over 20 Hz to 20 kHz and
// ResponseMinDB to ResponseMaxDB, one point per pixel column.
func (r *ResponseCurve) Path(bounds spectrum.Bounds) spectrum.Path {
	return ResponsePath(r.Magnitudes(LogFrequencies(bounds.Columns(), 20, 20000), nil), bounds)
}

// ResponsePath maps per-column magnitudes in dB onto bounds. Values outside
// the display range are clamped to the edges.
func ResponsePath(mags []float64, bounds spectrum.Bounds) spectrum.Path {
	if len(mags) == 0 {
		return nil
	}

	path := make(spectrum.Path, len(mags))
	for i, db := range mags {
		if math.IsNaN(db) {
			db = ResponseMinDB
		}

		db = core.Clamp(db, ResponseMinDB, ResponseMaxDB)
		path[i] = spectrum.Point{
			X: bounds.X + float64(i),
			Y: core.MapLinear(db, ResponseMinDB, ResponseMaxDB, bounds.Bottom(), bounds.Y),
		}
	}

	return path
}
