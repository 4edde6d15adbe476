package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	d, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.1, 3})
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}

	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(DeterministicSine(100, 48000, 1, 48000)); math.Abs(got-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS(sine) = %v", got)
	}

	if RMS(nil) != 0 {
		t.Fatal("RMS(nil) != 0")
	}
}

func TestRatioDB(t *testing.T) {
	if got := RatioDB(2, 1); math.Abs(got-6.0206) > 1e-4 {
		t.Fatalf("RatioDB(2, 1) = %v", got)
	}
}

func TestRequireHelpersPass(t *testing.T) {
	a := []float64{0.1, -0.2, 0.3}

	RequireSliceNearlyEqual(t, a, []float64{0.1, -0.2, 0.30000001}, 1e-6)
	RequireBitExact(t, a, append([]float64(nil), a...))
	RequireFinite(t, a)
}
