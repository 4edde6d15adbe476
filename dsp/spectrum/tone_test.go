package spectrum

import (
	"errors"
	"math"
	"testing"
)

func TestToneAmplitude(t *testing.T) {
	sr := 48000.0
	for _, tc := range []struct {
		freq, amp float64
	}{
		{1000, 1},
		{997, 0.25},
		{15000, 0.01},
	} {
		in := make([]float64, 9600)
		for i := range in {
			in[i] = tc.amp * math.Sin(2*math.Pi*tc.freq*float64(i)/sr+0.3)
		}

		got, err := ToneAmplitude(in, tc.freq, sr)
		if err != nil {
			t.Fatal(err)
		}

		if math.Abs(got-tc.amp)/tc.amp > 1e-3 {
			t.Fatalf("f=%v: amplitude %v, want %v", tc.freq, got, tc.amp)
		}
	}
}

func TestToneAmplitude_RejectsOtherTones(t *testing.T) {
	sr := 48000.0
	in := make([]float64, 9600)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / sr)
	}

	got, _ := ToneAmplitude(in, 3000, sr)
	if got > 1e-4 {
		t.Fatalf("3 kHz probe on 1 kHz tone = %v", got)
	}
}

func TestToneAmplitude_InvalidArgs(t *testing.T) {
	if _, err := ToneAmplitude([]float64{1}, 30000, 48000); !errors.Is(err, ErrInvalidTone) {
		t.Fatalf("err = %v, want ErrInvalidTone", err)
	}
}
