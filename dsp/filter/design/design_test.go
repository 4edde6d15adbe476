package design

import (
	"math"
	"testing"

	"github.com/cwbudde/spectrum-eq/dsp/filter/biquad"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func mag(c biquad.Coefficients, freq, sr float64) float64 {
	return c.Magnitude(freq, sr)
}

func assertUsable(t *testing.T, c biquad.Coefficients) {
	t.Helper()

	if !c.Finite() {
		t.Fatalf("non-finite coefficients: %#v", c)
	}

	if !c.Stable() {
		t.Fatalf("unstable coefficients: %#v", c)
	}
}

func TestBiquadDesigners_BasicResponseShape(t *testing.T) {
	sr := 48000.0
	f := 1000.0

	lp := Lowpass(f, defaultQ, sr)
	if !(mag(lp, 100, sr) > mag(lp, 10000, sr)) {
		t.Fatal("lowpass shape check failed")
	}

	if got := lp.MagnitudeDB(f, sr); !almostEqual(got, -3.0103, 1e-3) {
		t.Fatalf("lowpass at cutoff = %.4f dB, want -3.01", got)
	}

	hp := Highpass(f, defaultQ, sr)
	if !(mag(hp, 10000, sr) > mag(hp, 100, sr)) {
		t.Fatal("highpass shape check failed")
	}

	if got := hp.MagnitudeDB(f, sr); !almostEqual(got, -3.0103, 1e-3) {
		t.Fatalf("highpass at cutoff = %.4f dB, want -3.01", got)
	}
}

func TestPeak_CenterGain(t *testing.T) {
	tests := []struct {
		name   string
		freq   float64
		gainDB float64
		q      float64
		sr     float64
	}{
		{"boost 6dB 1k", 1000, 6, 1, 44100},
		{"cut 12dB 250", 250, -12, 0.5, 48000},
		{"boost 24dB 5k narrow", 5000, 24, 10, 96000},
		{"flat", 1000, 0, 1, 48000},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Peak(tc.freq, tc.gainDB, tc.q, tc.sr)
			assertUsable(t, c)

			if got := c.MagnitudeDB(tc.freq, tc.sr); !almostEqual(got, tc.gainDB, 1e-6) {
				t.Fatalf("center gain = %.12f dB, want %v", got, tc.gainDB)
			}

			if got := c.MagnitudeDB(tc.freq/64, tc.sr); math.Abs(got) > 0.1 {
				t.Fatalf("far-below gain = %.4f dB, want ~0", got)
			}
		})
	}
}

func TestDesigners_ValidateAcrossSampleRates(t *testing.T) {
	for _, sr := range []float64{44100, 48000, 96000, 192000} {
		for _, c := range []biquad.Coefficients{
			Lowpass(1000, 0.707, sr),
			Highpass(1000, 0.707, sr),
			Peak(1000, 3, 1.0, sr),
			Peak(20000, -24, 0.1, sr),
			Highpass(20, 0.5, sr),
		} {
			assertUsable(t, c)
		}
	}
}

func TestDesigners_NeverProduceNaN(t *testing.T) {
	freqs := []float64{math.NaN(), math.Inf(-1), -100, 0, 1e-9, 22050, 30000, math.Inf(1)}
	qs := []float64{math.NaN(), math.Inf(1), -1, 0, 1e-9, 1, 1e6}
	gains := []float64{math.NaN(), math.Inf(-1), -1000, 0, 24, math.Inf(1)}

	for _, f := range freqs {
		for _, q := range qs {
			for _, c := range []biquad.Coefficients{Lowpass(f, q, 44100), Highpass(f, q, 44100)} {
				if !c.Finite() {
					t.Fatalf("f=%v q=%v: non-finite %#v", f, q, c)
				}
			}

			for _, g := range gains {
				if c := Peak(f, g, q, 44100); !c.Finite() {
					t.Fatalf("f=%v g=%v q=%v: non-finite %#v", f, g, q, c)
				}
			}
		}
	}
}

func TestDesigners_InvalidSampleRateIsIdentity(t *testing.T) {
	for _, sr := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if c := Peak(1000, 6, 1, sr); !c.IsIdentity() {
			t.Fatalf("sr=%v: got %#v, want identity", sr, c)
		}
	}
}

func TestDesigners_Deterministic(t *testing.T) {
	a := Peak(1234.5, 3.5, 0.7, 44100)
	b := Peak(1234.5, 3.5, 0.7, 44100)
	if a != b {
		t.Fatalf("non-deterministic design: %#v vs %#v", a, b)
	}
}
