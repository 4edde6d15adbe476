package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/cwbudde/spectrum-eq/dsp/eq/processor"
	"github.com/cwbudde/spectrum-eq/internal/logging"
	"github.com/cwbudde/spectrum-eq/internal/playback"
)

func runPlay(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("play", "INPUT", stderr)
	showSpectrum := fs.Bool("spectrum", false, "redraw the output spectrum while playing")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("%w: play needs INPUT", errUsage)
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

	src, err := playback.NewSource(clip, proc, e.cfg.Audio.BlockSize)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	bounds := e.cfg.Bounds()
	interval := processor.DefaultRefreshInterval
	if hz := e.cfg.Analyzer.RefreshHz; hz > 0 {
		interval = time.Duration(float64(time.Second) / hz)
	}

	done := make(chan error, 1)
	go func() { done <- an.Run(ctx, interval, bounds) }()

	var onTick func()
	if *showSpectrum {
		onTick = func() {
			path, ok := an.PollSpectrumPath(0)
			if !ok {
				return
			}

			fmt.Fprint(stdout, "\x1b[H\x1b[2J")
			_ = plot(stdout, bounds, "", "", trace{path, '#'}, trace{an.ResponsePath(bounds), '*'})
		}
	}

	err = playback.Play(ctx, src, playback.Options{
		SampleRate: clip.SampleRate,
		Latency:    time.Duration(e.cfg.Audio.LatencyMS) * time.Millisecond,
		Log:        logging.Component(e.log, "playback"),
	}, onTick)

	stop()
	<-done

	e.log.Info().Uint64("faults", proc.Faults()).Uint64("dropped", an.Dropped()).Msg("session closed")

	return err
}
