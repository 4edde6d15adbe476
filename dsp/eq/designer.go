package eq

import (
	"fmt"
	"strings"

	"github.com/cwbudde/spectrum-eq/dsp/filter/biquad"
	"github.com/cwbudde/spectrum-eq/dsp/filter/design"
)

// CutAlignment selects how a cut band's sections are designed.
type CutAlignment int

const (
	// AlignButterworth splits an order-2k Butterworth prototype into k
	// sections with distinct Q. Changing the slope redesigns every active
	// section.
	AlignButterworth CutAlignment = iota
	// AlignStacked uses k identical Q=1/√2 sections. Raising the slope
	// only activates one more section.
	AlignStacked
)

func (a CutAlignment) String() string {
	if a == AlignStacked {
		return "stacked"
	}

	return "butterworth"
}

// ParseCutAlignment resolves "butterworth" or "stacked".
func ParseCutAlignment(v string) (CutAlignment, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "butterworth":
		return AlignButterworth, nil
	case "stacked":
		return AlignStacked, nil
	default:
		return AlignButterworth, fmt.Errorf("eq: unknown cut alignment %q", v)
	}
}

// Coefficients is the full coefficient set of one chain. It is a plain
// value shared by both channels and the response curve.
type Coefficients struct {
	LowCut  design.CutSections
	Peaks   [NumPeaks]biquad.Coefficients
	HighCut design.CutSections
}

// DesignPeak designs peak band i (0..3) of s.
func DesignPeak(s *Settings, i int, sampleRate float64) biquad.Coefficients {
	b := s.Peaks[i]
	return design.Peak(b.Freq, b.GainDB, b.Q, sampleRate)
}

// DesignLowCut designs the highpass sections of the low-cut band.
func DesignLowCut(s *Settings, sampleRate float64, align CutAlignment) design.CutSections {
	k := s.LowCut.Slope.Sections()
	if align == AlignStacked {
		return design.StackedHPSections(s.LowCut.Freq, k, sampleRate)
	}

	return design.ButterworthHPSections(s.LowCut.Freq, k, sampleRate)
}

// DesignHighCut designs the lowpass sections of the high-cut band.
func DesignHighCut(s *Settings, sampleRate float64, align CutAlignment) design.CutSections {
	k := s.HighCut.Slope.Sections()
	if align == AlignStacked {
		return design.StackedLPSections(s.HighCut.Freq, k, sampleRate)
	}

	return design.ButterworthLPSections(s.HighCut.Freq, k, sampleRate)
}

// Design computes every coefficient of the chain from scratch. The result
// depends only on its arguments. Bypassed bands are designed too, so
// toggling bypass never changes coefficients.
func Design(s *Settings, sampleRate float64, align CutAlignment) Coefficients {
	var c Coefficients

	c.LowCut = DesignLowCut(s, sampleRate, align)
	for i := range NumPeaks {
		c.Peaks[i] = DesignPeak(s, i, sampleRate)
	}
	c.HighCut = DesignHighCut(s, sampleRate, align)

	return c
}
