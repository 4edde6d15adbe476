package main

import (
	"fmt"
	"io"
	"time"

	"github.com/cwbudde/spectrum-eq/dsp/eq/processor"
	"github.com/cwbudde/spectrum-eq/internal/audiofile"
	"github.com/cwbudde/spectrum-eq/internal/logging"
)

func runRender(args []string, stdout, stderr io.Writer) error {
	fs, common := newFlagSet("render", "INPUT OUTPUT", stderr)
	highRes := fs.Bool("high-res", false, "write 24-bit instead of 16-bit samples")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("%w: render needs INPUT and OUTPUT", errUsage)
	}

	e, err := common.setup(fs, stdout, stderr)
	if err != nil {
		return err
	}

	in, out := fs.Arg(0), fs.Arg(1)

	clip, err := loadClip(e, in)
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

	start := time.Now()
	rendered := renderClip(proc, clip, e.cfg.Audio.BlockSize, nil)

	if err := audiofile.WriteWAVFile(out, rendered, *highRes); err != nil {
		return err
	}

	logging.Since(e.log.Info(), start).
		Str("output", out).
		Int("frames", rendered.Frames()).
		Uint64("faults", proc.Faults()).
		Msg("render finished")

	return nil
}

// loadClip decodes path and logs its tags when present.
func loadClip(e *env, path string) (*audiofile.Clip, error) {
	clip, err := audiofile.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	ev := e.log.Info().Str("input", path).Int("sample_rate", clip.SampleRate).Int("frames", clip.Frames())
	if md, err := audiofile.ReadMetadata(path); err == nil {
		ev = ev.Str("title", md.Title).Str("artist", md.Artist)
	}

	ev.Msg("input decoded")

	return clip, nil
}

// renderClip filters a copy of clip block by block. afterBlock, if set,
// runs after every block with the index of the next unprocessed frame.
func renderClip(proc *processor.Processor, clip *audiofile.Clip, block int, afterBlock func(pos int) bool) *audiofile.Clip {
	out := &audiofile.Clip{SampleRate: clip.SampleRate}
	for ch := range out.Channels {
		out.Channels[ch] = append([]float64(nil), clip.Channels[ch]...)
	}

	view := make([][]float64, len(out.Channels))
	total := out.Frames()

	for pos := 0; pos < total; pos += block {
		end := min(pos+block, total)
		for ch := range out.Channels {
			view[ch] = out.Channels[ch][pos:end]
		}

		proc.ProcessBlock(view)

		if afterBlock != nil && !afterBlock(end) {
			out.Channels[0] = out.Channels[0][:end]
			out.Channels[1] = out.Channels[1][:end]

			break
		}
	}

	return out
}
