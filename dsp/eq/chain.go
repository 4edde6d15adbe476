package eq

import (
	"github.com/cwbudde/spectrum-eq/dsp/filter/biquad"
	"github.com/cwbudde/spectrum-eq/dsp/filter/design"
)

// Position indexes a stage of the fixed chain.
type Position int

const (
	LowCut Position = iota
	LowPeak
	LowMidPeak
	HighMidPeak
	HighPeak
	HighCut

	NumPositions = int(HighCut) + 1
)

var positionNames = [NumPositions]string{"LowCut", "Low Peak", "LowMid Peak", "HighMid Peak", "High Peak", "HighCut"}

func (p Position) String() string {
	if p < 0 || int(p) >= NumPositions {
		return "invalid"
	}

	return positionNames[p]
}

// IsPeak reports whether p is one of the four peaking stages.
func (p Position) IsPeak() bool {
	return p >= LowPeak && p <= HighPeak
}

func (p Position) peakIndex() int {
	return int(p - LowPeak)
}

// MonoChain is the filter cascade of one audio channel. Cut stages hold
// design.MaxCutSections biquads, peak stages one. All sections are
// allocated up front; updates only overwrite coefficients.
type MonoChain struct {
	stages   [NumPositions]*biquad.Chain
	bypassed [NumPositions]bool
}

// NewMonoChain allocates a chain whose stages are all identity.
func NewMonoChain() *MonoChain {
	c := &MonoChain{}
	for p := range c.stages {
		capacity := 1
		if Position(p) == LowCut || Position(p) == HighCut {
			capacity = design.MaxCutSections
		}

		c.stages[p] = biquad.NewChain(capacity)
	}

	return c
}

// Update loads coeffs and the bypass flags of s. Delay state is kept, so
// the new response applies from the next processed sample. Zero-alloc.
func (c *MonoChain) Update(coeffs *Coefficients, s *Settings) {
	c.stages[LowCut].Load(coeffs.LowCut.Slice())
	for i := range NumPeaks {
		c.stages[LowPeak+Position(i)].Load(coeffs.Peaks[i : i+1])
	}
	c.stages[HighCut].Load(coeffs.HighCut.Slice())

	c.bypassed[LowCut] = s.LowCut.Bypassed
	for i, b := range s.Peaks {
		c.bypassed[LowPeak+Position(i)] = b.Bypassed
	}
	c.bypassed[HighCut] = s.HighCut.Bypassed
}

// Process filters buf in place. Bypassed stages are skipped entirely and
// identity sections inside a cut stage cost nothing.
func (c *MonoChain) Process(buf []float64) {
	for p, st := range c.stages {
		if c.bypassed[p] {
			continue
		}

		st.ProcessBlock(buf)
	}
}

// Reset zeroes the delay memory of every section.
func (c *MonoChain) Reset() {
	for _, st := range c.stages {
		st.Reset()
	}
}

// Stage returns the cascade at position p.
func (c *MonoChain) Stage(p Position) *biquad.Chain {
	return c.stages[p]
}

// Bypassed reports whether stage p is skipped.
func (c *MonoChain) Bypassed(p Position) bool {
	return c.bypassed[p]
}

// SetBypassed changes the bypass flag of stage p.
func (c *MonoChain) SetBypassed(p Position, bypassed bool) {
	c.bypassed[p] = bypassed
}

// MagnitudeSquared returns |H(f)|² of the non-bypassed stages, computed
// from the loaded coefficients.
func (c *MonoChain) MagnitudeSquared(freqHz, sampleRate float64) float64 {
	mag := 1.0
	for p, st := range c.stages {
		if c.bypassed[p] {
			continue
		}

		mag *= st.MagnitudeSquared(freqHz, sampleRate)
	}

	return mag
}
