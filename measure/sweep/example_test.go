package sweep_test

import (
	"fmt"

	"github.com/cwbudde/spectrum-eq/dsp/filter/biquad"
	"github.com/cwbudde/spectrum-eq/dsp/filter/design"
	"github.com/cwbudde/spectrum-eq/measure/sweep"
)

func ExampleLogSweep_Measure() {
	s := &sweep.LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 1, SampleRate: 48000}

	signal, err := s.Generate()
	if err != nil {
		panic(err)
	}

	section := biquad.NewSection(design.Peak(1000, 6, 1, s.SampleRate))
	section.ProcessBlock(signal)

	tf, err := s.Measure(signal)
	if err != nil {
		panic(err)
	}

	fmt.Printf("1000 Hz: %.1f dB\n", tf.MagnitudeDB(1000))
	// Output:
	// 1000 Hz: 6.0 dB
}
