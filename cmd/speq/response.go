package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/spectrum-eq/dsp/eq"
	"github.com/cwbudde/spectrum-eq/measure/sweep"
)

const (
	plotMinHz = 20.0
	plotMaxHz = 20000.0
)

func runResponse(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("response", "", stderr)
	points := fs.Int("points", 31, "number of log-spaced frequencies in the table")
	measure := fs.Bool("measure", false, "also measure the processed response with a sine sweep")
	plotIt := fs.Bool("plot", false, "draw the response curve instead of a table")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("%w: response takes no arguments", errUsage)
	}

	e, err := common.setup(fs, stdout, stderr)
	if err != nil {
		return err
	}

	sr := float64(e.cfg.Audio.SampleRate)

	proc, err := e.newProcessor()
	if err != nil {
		return err
	}

	if err := proc.Prepare(sr, e.cfg.Audio.BlockSize); err != nil {
		return err
	}

	an, err := e.newAnalyzer(proc)
	if err != nil {
		return err
	}

	if *plotIt {
		bounds := e.cfg.Bounds()
		return plot(stdout, bounds, "+24 dB", "-24 dB", trace{an.ResponsePath(bounds), '*'})
	}

	freqs := eq.LogFrequencies(max(*points, 2), plotMinHz, plotMaxHz)
	mags := an.GetMagnitudesForDisplay(freqs)

	var measured *sweep.Transfer
	var sw sweep.LogSweep

	if *measure {
		sw = sweep.LogSweep{StartFreq: plotMinHz, EndFreq: min(plotMaxHz, 0.45*sr), Duration: 2, SampleRate: sr}
		if measured, err = measureSweep(proc, &sw, e.cfg.Audio.BlockSize); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	if measured != nil {
		fmt.Fprintln(tw, "Hz\tcurve dB\tmeasured dB\t")
	} else {
		fmt.Fprintln(tw, "Hz\tcurve dB\t")
	}

	for i, f := range freqs {
		if measured == nil {
			fmt.Fprintf(tw, "%.1f\t%.2f\t\n", f, mags[i])
			continue
		}

		m := "-"
		if f >= sw.StartFreq && f <= sw.EndFreq {
			m = fmt.Sprintf("%.2f", measured.MagnitudeDB(f))
		}

		fmt.Fprintf(tw, "%.1f\t%.2f\t%s\t\n", f, mags[i], m)
	}

	return tw.Flush()
}

// measureSweep runs a sweep through the left channel of proc and returns
// the measured transfer function. The processor state is reset first.
func measureSweep(proc interface {
	Reset()
	ProcessBlock([][]float64)
}, sw *sweep.LogSweep, block int,
) (*sweep.Transfer, error) {
	x, err := sw.Generate()
	if err != nil {
		return nil, err
	}

	y := append([]float64(nil), x...)
	proc.Reset()

	view := make([][]float64, 1)
	for pos := 0; pos < len(y); pos += block {
		view[0] = y[pos:min(pos+block, len(y))]
		proc.ProcessBlock(view)
	}

	return sw.Measure(y)
}
