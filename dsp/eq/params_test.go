package eq

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	if s.LowCut.Freq != 20 || s.HighCut.Freq != 20000 {
		t.Fatalf("cut freqs = %v / %v", s.LowCut.Freq, s.HighCut.Freq)
	}

	if s.LowCut.Slope != Slope12 || s.HighCut.Slope != Slope12 {
		t.Fatalf("slopes = %v / %v", s.LowCut.Slope, s.HighCut.Slope)
	}

	wantFreqs := [NumPeaks]float64{60, 200, 600, 3000}
	for i, b := range s.Peaks {
		if b.Freq != wantFreqs[i] || b.GainDB != 0 || b.Q != 1 || b.Bypassed {
			t.Fatalf("peak %d = %+v", i, b)
		}
	}

	if !s.AnalyzerEnabled {
		t.Fatal("analyzer disabled by default")
	}
}

func TestParameters_LayoutIDs(t *testing.T) {
	ps := NewParameters()
	if got := len(ps.All()); got != 23 {
		t.Fatalf("len(All) = %d, want 23", got)
	}

	for _, id := range []string{
		IDLowCutFreq, IDHighCutFreq, IDLowCutSlope, IDHighCutSlope,
		IDLowCutBypassed, IDHighCutBypassed, IDAnalyzerEnabled,
		"Low Peak Freq", "LowMid Peak Gain", "HighMid Peak Quality", "High Peak Bypassed",
	} {
		if _, ok := ps.Get(id); !ok {
			t.Fatalf("missing parameter %q", id)
		}
	}
}

func TestParameter_SetSnapsAndClamps(t *testing.T) {
	ps := NewParameters()

	tests := []struct {
		id   string
		in   float64
		want float64
	}{
		{PeakGainID(0), 3.3, 3.5},
		{PeakGainID(0), -100, -24},
		{PeakGainID(0), 100, 24},
		{PeakQualityID(1), 1.234, 1.25},
		{PeakFreqID(2), 1000.4, 1000},
		{IDLowCutFreq, 1000, 60},
		{IDHighCutFreq, 10, 8000},
		{IDLowCutSlope, 2.2, 2},
		{IDLowCutSlope, 9, 3},
		{IDAnalyzerEnabled, 0.2, 0},
	}

	for _, tc := range tests {
		if err := ps.Set(tc.id, tc.in); err != nil {
			t.Fatal(err)
		}

		p, _ := ps.Get(tc.id)
		if math.Abs(p.Value()-tc.want) > 1e-9 {
			t.Fatalf("%s Set(%v) = %v, want %v", tc.id, tc.in, p.Value(), tc.want)
		}
	}
}

func TestParameter_NaNRestoresDefault(t *testing.T) {
	ps := NewParameters()
	p, _ := ps.Get(PeakGainID(3))

	p.Set(12)
	p.Set(math.NaN())

	if p.Value() != p.Default {
		t.Fatalf("NaN stored as %v", p.Value())
	}

	ps.Apply(Settings{LowCut: CutBand{Freq: math.NaN()}})

	if got := ps.Capture().LowCut.Freq; got != 20 {
		t.Fatalf("Apply(NaN) stored %v", got)
	}
}

func TestParameters_UnknownID(t *testing.T) {
	ps := NewParameters()
	if err := ps.Set("Mid Peak Freq", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("err = %v, want ErrUnknownParameter", err)
	}
}

func TestParameters_Generation(t *testing.T) {
	ps := NewParameters()
	g0 := ps.Generation()

	_ = ps.Set(PeakGainID(0), 0)
	if ps.Generation() != g0 {
		t.Fatal("generation bumped without a change")
	}

	_ = ps.Set(PeakGainID(0), 6)
	g1 := ps.Generation()

	if g1 == g0 {
		t.Fatal("generation not bumped")
	}

	ps.Reset()
	if ps.Generation() == g1 {
		t.Fatal("Reset did not bump generation")
	}

	if ps.Capture() != DefaultSettings() {
		t.Fatal("Reset did not restore defaults")
	}
}

func TestParameter_Normalized(t *testing.T) {
	ps := NewParameters()
	p, _ := ps.Get(IDHighCutFreq)

	p.SetNormalized(0)
	if p.Value() != 8000 {
		t.Fatalf("normalized 0 = %v", p.Value())
	}

	p.SetNormalized(1)
	if p.Value() != 20000 {
		t.Fatalf("normalized 1 = %v", p.Value())
	}

	// Skew 0.25 gives the low end most of the travel.
	p.SetNormalized(0.5)
	if p.Value() > 9000 {
		t.Fatalf("normalized 0.5 = %v, want skewed towards min", p.Value())
	}

	if n := p.Normalized(); math.Abs(n-0.5) > 0.01 {
		t.Fatalf("Normalized = %v, want ~0.5", n)
	}
}

func TestParameter_Label(t *testing.T) {
	ps := NewParameters()
	_ = ps.Set(IDHighCutSlope, 1)

	p, _ := ps.Get(IDHighCutSlope)
	if got := p.Label(); got != "24 dB/Oct" {
		t.Fatalf("Label = %q", got)
	}

	b, _ := ps.Get(IDAnalyzerEnabled)
	if got := b.Label(); got != "on" {
		t.Fatalf("Label = %q", got)
	}
}

func TestParameters_CaptureApply(t *testing.T) {
	s := DefaultSettings()
	s.LowCut = CutBand{Freq: 33.3, Slope: Slope36, Bypassed: true}
	s.Peaks[1] = PeakBand{Freq: 345.678, GainDB: -7.25, Q: 2.71, Bypassed: true}
	s.HighCut.Slope = Slope48
	s.AnalyzerEnabled = false

	ps := NewParameters()
	ps.Apply(s)

	if got := ps.Capture(); got != s {
		t.Fatalf("Capture = %+v, want %+v", got, s)
	}
}

func TestSlope(t *testing.T) {
	for i, want := range []int{1, 2, 3, 4} {
		s := Slope(i)
		if s.Sections() != want || s.DBPerOctave() != 12*want {
			t.Fatalf("%v: sections %d, dB/oct %d", s, s.Sections(), s.DBPerOctave())
		}
	}

	if Slope(-1).Sections() != 1 || Slope(7).Sections() != 4 {
		t.Fatal("out-of-range slopes not clamped")
	}

	for _, in := range []string{"36", "36 dB/Oct"} {
		if s, err := ParseSlope(in); err != nil || s != Slope36 {
			t.Fatalf("ParseSlope(%q) = %v, %v", in, s, err)
		}
	}

	if _, err := ParseSlope("18"); err == nil {
		t.Fatal("ParseSlope(18) succeeded")
	}
}

func TestParameters_SetPeakDoesNotAllocate(t *testing.T) {
	ps := NewParameters()

	v := 0.0
	allocs := testing.AllocsPerRun(100, func() {
		v += 0.5
		for i := range NumPeaks {
			_ = ps.Set(PeakGainID(i), v)
			_ = ps.Set(PeakFreqID(i), v)
			_ = ps.Set(PeakQualityID(i), v)
			_ = ps.Set(PeakBypassedID(i), v)
		}
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}

	if got := PeakQualityID(3); got != "High Peak Quality" {
		t.Fatalf("PeakQualityID(3) = %q", got)
	}
}
