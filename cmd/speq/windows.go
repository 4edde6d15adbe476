package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
	"github.com/cwbudde/spectrum-eq/dsp/window"
)

// analysisWindows lists the windows the analyzer accepts, in table order.
var analysisWindows = []window.Type{
	window.TypeRectangular,
	window.TypeHann,
	window.TypeHamming,
	window.TypeBlackman,
	window.TypeBlackmanHarris,
	window.TypeFlatTop,
}

func runWindows(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("windows", "", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("%w: windows takes no arguments", errUsage)
	}

	e, err := common.setup(fs, stdout, stderr)
	if err != nil {
		return err
	}

	size := spectrum.FFTOrder(e.cfg.Analyzer.FFTOrder).Size()
	binWidth := float64(e.cfg.Audio.SampleRate) / float64(size)

	return printWindows(stdout, size, binWidth, e.cfg.Analyzer.Window)
}

// printWindows prints the spectral properties of every analysis window at
// the given FFT size. current marks the configured window.
func printWindows(w io.Writer, size int, binWidth float64, current string) error {
	active, _ := window.Parse(current)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tSize\tCoherent Gain\tENBW [bins]\tENBW [Hz]\t\n")
	fmt.Fprintf(tw, "------\t----\t-------------\t-----------\t---------\t\n")

	for _, t := range analysisWindows {
		cg, err := window.CoherentGain(window.Generate(t, size, window.WithPeriodic()))
		if err != nil {
			return err
		}

		info := window.Info(t)

		label := info.Name
		if t == active {
			label += " *"
		}

		fmt.Fprintf(tw, "%s\t%d\t%.6f\t%.4f\t%.2f\t\n", label, size, cg, info.ENBW, info.ENBW*binWidth)
	}

	return tw.Flush()
}
