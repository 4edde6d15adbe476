package eq

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
)

// Parameter IDs. They match the persisted state keys.
const (
	IDLowCutFreq      = "LowCut Freq"
	IDHighCutFreq     = "HighCut Freq"
	IDLowCutSlope     = "LowCut Slope"
	IDHighCutSlope    = "HighCut Slope"
	IDLowCutBypassed  = "LowCut Bypassed"
	IDHighCutBypassed = "HighCut Bypassed"
	IDAnalyzerEnabled = "Analyzer Enabled"
)

// ErrUnknownParameter is returned for an ID that is not in the layout.
var ErrUnknownParameter = errors.New("eq: unknown parameter")

var peakNames = [NumPeaks]string{"Low Peak", "LowMid Peak", "HighMid Peak", "High Peak"}

var (
	peakFreqIDs     = peakIDs(" Freq")
	peakGainIDs     = peakIDs(" Gain")
	peakQualityIDs  = peakIDs(" Quality")
	peakBypassedIDs = peakIDs(" Bypassed")
)

func peakIDs(suffix string) [NumPeaks]string {
	var ids [NumPeaks]string
	for i, name := range peakNames {
		ids[i] = name + suffix
	}

	return ids
}

// PeakFreqID returns the frequency parameter ID of peak band i (0..3).
func PeakFreqID(i int) string { return peakFreqIDs[i] }

// PeakGainID returns the gain parameter ID of peak band i.
func PeakGainID(i int) string { return peakGainIDs[i] }

// PeakQualityID returns the Q parameter ID of peak band i.
func PeakQualityID(i int) string { return peakQualityIDs[i] }

// PeakBypassedID returns the bypass parameter ID of peak band i.
func PeakBypassedID(i int) string { return peakBypassedIDs[i] }

// Kind classifies a parameter.
type Kind int

const (
	KindFloat Kind = iota
	KindChoice
	KindBool
)

// Parameter is one automatable value. The current value is stored as
// float64 bits in an atomic word, so readers on any goroutine see either
// the old or the new value and never block.
type Parameter struct {
	ID      string
	Kind    Kind
	Min     float64
	Max     float64
	Default float64
	// Step is the snapping interval for Set. Zero disables snapping.
	Step float64
	// Skew shapes the normalized mapping: values below 1 give the low end
	// of the range more travel.
	Skew    float64
	Choices []string

	bits atomic.Uint64
	gen  *atomic.Uint64
}

// Value returns the current plain value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.bits.Load())
}

// Set snaps v to the step grid, clamps it to the range and stores it.
// NaN resets to the default.
func (p *Parameter) Set(v float64) {
	p.store(p.snap(v))
}

// Normalized returns the value mapped to [0, 1] with the parameter's skew.
func (p *Parameter) Normalized() float64 {
	if p.Max <= p.Min {
		return 0
	}

	prop := (p.Value() - p.Min) / (p.Max - p.Min)
	if p.Skew > 0 && p.Skew != 1 && prop > 0 {
		prop = math.Exp(math.Log(prop) * p.Skew)
	}

	return prop
}

// SetNormalized sets the value from a [0, 1] control position.
func (p *Parameter) SetNormalized(n float64) {
	n = math.Min(math.Max(n, 0), 1)
	if p.Skew > 0 && p.Skew != 1 && n > 0 {
		n = math.Exp(math.Log(n) / p.Skew)
	}

	p.Set(p.Min + n*(p.Max-p.Min))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.store(p.Default)
}

// Bool reports whether a bool parameter is on.
func (p *Parameter) Bool() bool {
	return p.Value() > 0.5
}

// Label formats the value for display.
func (p *Parameter) Label() string {
	switch p.Kind {
	case KindChoice:
		return p.Choices[int(p.Value())]
	case KindBool:
		if p.Bool() {
			return "on"
		}

		return "off"
	default:
		return fmt.Sprintf("%g", p.Value())
	}
}

func (p *Parameter) snap(v float64) float64 {
	if p.Step > 0 {
		v = p.Min + math.Round((v-p.Min)/p.Step)*p.Step
	}

	return v
}

func (p *Parameter) store(v float64) {
	if math.IsNaN(v) {
		v = p.Default
	}

	v = math.Min(math.Max(v, p.Min), p.Max)
	if p.bits.Swap(math.Float64bits(v)) != math.Float64bits(v) && p.gen != nil {
		p.gen.Add(1)
	}
}

// Parameters is the fixed equalizer parameter layout.
type Parameters struct {
	list []*Parameter
	byID map[string]*Parameter
	gen  atomic.Uint64

	lowCutFreq, highCutFreq         *Parameter
	lowCutSlope, highCutSlope       *Parameter
	lowCutBypassed, highCutBypassed *Parameter
	peakFreq, peakGain, peakQ       [NumPeaks]*Parameter
	peakBypassed                    [NumPeaks]*Parameter
	analyzerEnabled                 *Parameter
}

var peakFreqRanges = [NumPeaks][2]float64{
	{60, 200},
	{200, 600},
	{600, 3000},
	{3000, 8000},
}

// NewParameters builds the layout with every value at its default.
func NewParameters() *Parameters {
	ps := &Parameters{byID: make(map[string]*Parameter)}

	ps.lowCutFreq = ps.add(&Parameter{ID: IDLowCutFreq, Min: 20, Max: 60, Default: 20, Step: 1, Skew: 0.25})
	ps.highCutFreq = ps.add(&Parameter{ID: IDHighCutFreq, Min: 8000, Max: 20000, Default: 20000, Step: 1, Skew: 0.25})

	for i := range NumPeaks {
		r := peakFreqRanges[i]
		ps.peakFreq[i] = ps.add(&Parameter{ID: PeakFreqID(i), Min: r[0], Max: r[1], Default: r[0], Step: 1, Skew: 0.25})
		ps.peakGain[i] = ps.add(&Parameter{ID: PeakGainID(i), Min: -24, Max: 24, Default: 0, Step: 0.5, Skew: 1})
		ps.peakQ[i] = ps.add(&Parameter{ID: PeakQualityID(i), Min: 0.1, Max: 10, Default: 1, Step: 0.05, Skew: 1})
	}

	ps.lowCutSlope = ps.add(choice(IDLowCutSlope))
	ps.highCutSlope = ps.add(choice(IDHighCutSlope))

	ps.lowCutBypassed = ps.add(toggle(IDLowCutBypassed, false))
	for i := range NumPeaks {
		ps.peakBypassed[i] = ps.add(toggle(PeakBypassedID(i), false))
	}
	ps.highCutBypassed = ps.add(toggle(IDHighCutBypassed, false))
	ps.analyzerEnabled = ps.add(toggle(IDAnalyzerEnabled, true))

	return ps
}

func choice(id string) *Parameter {
	return &Parameter{
		ID:      id,
		Kind:    KindChoice,
		Max:     NumSlopes - 1,
		Step:    1,
		Choices: slopeLabels[:],
	}
}

func toggle(id string, def bool) *Parameter {
	p := &Parameter{ID: id, Kind: KindBool, Max: 1, Step: 1}
	if def {
		p.Default = 1
	}

	return p
}

func (ps *Parameters) add(p *Parameter) *Parameter {
	p.gen = &ps.gen
	p.bits.Store(math.Float64bits(p.Default))
	ps.list = append(ps.list, p)
	ps.byID[p.ID] = p

	return p
}

// All returns the parameters in layout order.
func (ps *Parameters) All() []*Parameter {
	return ps.list
}

// Get looks up a parameter by ID.
func (ps *Parameters) Get(id string) (*Parameter, bool) {
	p, ok := ps.byID[id]
	return p, ok
}

// Set snaps, clamps and stores the value of parameter id.
func (ps *Parameters) Set(id string, v float64) error {
	p, ok := ps.byID[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}

	p.Set(v)

	return nil
}

// Generation returns a counter that changes whenever any value changes.
func (ps *Parameters) Generation() uint64 {
	return ps.gen.Load()
}

// Reset restores every default.
func (ps *Parameters) Reset() {
	for _, p := range ps.list {
		p.Reset()
	}
}

// Capture reads every value with one atomic load each. Fields are read
// independently, so a concurrent writer may be observed partially.
func (ps *Parameters) Capture() Settings {
	var s Settings

	s.LowCut = CutBand{
		Freq:     ps.lowCutFreq.Value(),
		Slope:    Slope(ps.lowCutSlope.Value()),
		Bypassed: ps.lowCutBypassed.Bool(),
	}

	for i := range NumPeaks {
		s.Peaks[i] = PeakBand{
			Freq:     ps.peakFreq[i].Value(),
			GainDB:   ps.peakGain[i].Value(),
			Q:        ps.peakQ[i].Value(),
			Bypassed: ps.peakBypassed[i].Bool(),
		}
	}

	s.HighCut = CutBand{
		Freq:     ps.highCutFreq.Value(),
		Slope:    Slope(ps.highCutSlope.Value()),
		Bypassed: ps.highCutBypassed.Bool(),
	}

	s.AnalyzerEnabled = ps.analyzerEnabled.Bool()

	return s
}

// Apply stores every field of s. Values are clamped to their ranges but
// not snapped, so Apply(Capture()) is exact.
func (ps *Parameters) Apply(s Settings) {
	ps.lowCutFreq.store(s.LowCut.Freq)
	ps.lowCutSlope.store(float64(s.LowCut.Slope))
	ps.lowCutBypassed.store(boolValue(s.LowCut.Bypassed))

	for i, b := range s.Peaks {
		ps.peakFreq[i].store(b.Freq)
		ps.peakGain[i].store(b.GainDB)
		ps.peakQ[i].store(b.Q)
		ps.peakBypassed[i].store(boolValue(b.Bypassed))
	}

	ps.highCutFreq.store(s.HighCut.Freq)
	ps.highCutSlope.store(float64(s.HighCut.Slope))
	ps.highCutBypassed.store(boolValue(s.HighCut.Bypassed))
	ps.analyzerEnabled.store(boolValue(s.AnalyzerEnabled))
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
