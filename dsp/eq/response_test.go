package eq

import (
	"math"
	"testing"

	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
)

func TestLogFrequencies(t *testing.T) {
	f := LogFrequencies(3, 20, 20000)
	want := []float64{20, 20 * math.Sqrt(1000), 20000}

	for i := range want {
		if math.Abs(f[i]-want[i]) > 1e-9*want[i] {
			t.Fatalf("f[%d] = %v, want %v", i, f[i], want[i])
		}
	}

	if LogFrequencies(0, 20, 20000) != nil {
		t.Fatal("zero columns should return nil")
	}

	if one := LogFrequencies(1, 20, 20000); len(one) != 1 || one[0] != 20 {
		t.Fatalf("one column = %v", one)
	}
}

func TestEvaluate_ReusesDst(t *testing.T) {
	c := loadedChain(boostSettings(), 44100, AlignButterworth)
	freqs := LogFrequencies(64, 20, 20000)
	dst := make([]float64, 0, 64)

	out := Evaluate(c, 44100, freqs, dst)
	if len(out) != 64 || &out[0] != &dst[:1][0] {
		t.Fatal("dst not reused")
	}
}

func TestResponseCurve_MatchesLiveChain(t *testing.T) {
	const sr = 44100.0

	s := boostSettings()
	s.HighCut = CutBand{Freq: 9000, Slope: Slope36}
	live := loadedChain(s, sr, AlignButterworth)

	rc := NewResponseCurve(AlignButterworth)
	rc.Update(s, sr)

	freqs := LogFrequencies(200, 20, 20000)
	want := Evaluate(live, sr, freqs, nil)
	got := rc.Magnitudes(freqs, nil)

	for i := range freqs {
		if got[i] != want[i] {
			t.Fatalf("%v Hz: curve %v, chain %v", freqs[i], got[i], want[i])
		}
	}

	if rc.Settings() != s {
		t.Fatal("Settings not recorded")
	}
}

func TestResponseCurve_UnpreparedIsFlat(t *testing.T) {
	rc := NewResponseCurve(AlignButterworth)
	for _, v := range rc.Magnitudes([]float64{100, 1000}, nil) {
		if v != 0 {
			t.Fatalf("unprepared magnitude %v", v)
		}
	}
}

func TestResponsePath_Mapping(t *testing.T) {
	b := spectrum.Bounds{X: 10, Y: 5, Width: 4, Height: 100}
	p := ResponsePath([]float64{0, ResponseMaxDB, ResponseMinDB, 99}, b)

	want := []spectrum.Point{{X: 10, Y: 55}, {X: 11, Y: 5}, {X: 12, Y: 105}, {X: 13, Y: 5}}
	for i := range want {
		if math.Abs(p[i].X-want[i].X) > 1e-12 || math.Abs(p[i].Y-want[i].Y) > 1e-12 {
			t.Fatalf("point %d = %+v, want %+v", i, p[i], want[i])
		}
	}

	if ResponsePath(nil, b) != nil {
		t.Fatal("empty magnitudes should give nil path")
	}
}

func TestResponseCurve_Path(t *testing.T) {
	rc := NewResponseCurve(AlignButterworth)
	rc.Update(boostSettings(), 48000)

	b := spectrum.Bounds{Width: 300, Height: 200}
	p := rc.Path(b)

	if len(p) != 300 {
		t.Fatalf("len = %d", len(p))
	}

	for _, pt := range p {
		if pt.Y < 0 || pt.Y > 200 || math.IsNaN(pt.Y) {
			t.Fatalf("point out of bounds: %+v", pt)
		}
	}
}
