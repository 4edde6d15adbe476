package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/spectrum-eq/dsp/eq/processor"
	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
)

var errNoSpectrum = errors.New("no spectrum produced: input shorter than one analysis frame or analyzer disabled")

func runAnalyze(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("analyze", "INPUT", stderr)
	at := fs.Float64("at", 0, "stop after this many seconds (0 analyzes the whole file)")
	channel := fs.Int("channel", 0, "channel to plot (0 left, 1 right)")
	noCurve := fs.Bool("no-curve", false, "omit the response curve")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: analyze needs INPUT", errUsage)
	}

	if *channel < 0 || *channel >= processor.NumChannels {
		return fmt.Errorf("%w: --channel %d", errUsage, *channel)
	}

	e, err := common.setup(fs, stdout, stderr)
	if err != nil {
		return err
	}

	clip, err := loadClip(e, fs.Arg(0))
	if err != nil {
		return err
	}

	proc, err := e.newProcessor()
	if err != nil {
		return err
	}
	defer proc.ReleaseResources()

	if err := proc.Prepare(float64(clip.SampleRate), e.cfg.Audio.BlockSize); err != nil {
		return err
	}

	an, err := e.newAnalyzer(proc)
	if err != nil {
		return err
	}

	bounds := e.cfg.Bounds()
	stop := clip.Frames()
	if *at > 0 {
		stop = min(stop, int(*at*float64(clip.SampleRate)))
	}

	var last spectrum.Path
	var tickErr error

	renderClip(proc, clip, e.cfg.Audio.BlockSize, func(pos int) bool {
		if tickErr = an.Tick(bounds); tickErr != nil {
			return false
		}

		if p, ok := an.PollSpectrumPath(*channel); ok {
			last = p
		}

		return pos < stop
	})

	if tickErr != nil {
		return tickErr
	}

	if last == nil {
		return errNoSpectrum
	}

	traces := []trace{{last, '#'}}
	if !*noCurve {
		traces = append(traces, trace{an.ResponsePath(bounds), '*'})
	}

	pc := e.cfg.ProcessorAnalyzer().Path
	top, bottom := fmt.Sprintf("%+.0f dB", pc.MaxDB), fmt.Sprintf("%+.0f dB", pc.MinDB)

	e.log.Debug().Uint64("dropped", an.Dropped()).Msg("analysis finished")

	return plot(stdout, bounds, top, bottom, traces...)
}
