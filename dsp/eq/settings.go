package eq

import "fmt"

// Slope selects how many second-order sections a cut band uses.
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

// NumSlopes is the number of slope choices.
const NumSlopes = 4

var slopeLabels = [NumSlopes]string{"12 dB/Oct", "24 dB/Oct", "36 dB/Oct", "48 dB/Oct"}

// Sections returns the number of active biquads, 1 to 4.
func (s Slope) Sections() int {
	return int(s.clamp()) + 1
}

// DBPerOctave returns the nominal roll-off.
func (s Slope) DBPerOctave() int {
	return 12 * s.Sections()
}

func (s Slope) String() string {
	return slopeLabels[s.clamp()]
}

func (s Slope) clamp() Slope {
	return min(max(s, Slope12), Slope48)
}

// ParseSlope accepts a choice label ("24 dB/Oct") or a roll-off in
// dB/octave ("24").
func ParseSlope(v string) (Slope, error) {
	for i, label := range slopeLabels {
		if v == label || v == fmt.Sprint(12*(i+1)) {
			return Slope(i), nil
		}
	}

	return Slope12, fmt.Errorf("eq: unknown slope %q", v)
}

// CutBand holds the settings of the low-cut or high-cut band.
type CutBand struct {
	Freq     float64
	Slope    Slope
	Bypassed bool
}

// PeakBand holds the settings of one peaking band.
type PeakBand struct {
	Freq     float64
	GainDB   float64
	Q        float64
	Bypassed bool
}

// NumPeaks is the number of peaking bands.
const NumPeaks = 4

// Settings is an immutable snapshot of every equalizer parameter. It is a
// plain value: copying it never allocates and == compares all fields.
type Settings struct {
	LowCut          CutBand
	Peaks           [NumPeaks]PeakBand
	HighCut         CutBand
	AnalyzerEnabled bool
}

// DefaultSettings returns the parameter defaults: a flat response with
// all bands active.
func DefaultSettings() Settings {
	return NewParameters().Capture()
}

// Peak returns the band at position p, which must be one of the peak
// positions.
func (s Settings) Peak(p Position) PeakBand {
	return s.Peaks[p.peakIndex()]
}
