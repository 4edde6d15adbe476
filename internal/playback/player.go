package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/oto/v3"
	"github.com/rs/zerolog"
)

// Options configures the output device.
type Options struct {
	SampleRate int
	Latency    time.Duration
	Log        zerolog.Logger
}

// Play opens the default device and plays src until it is exhausted or
// ctx is done. onTick, if set, is called about every 10 ms on the calling
// goroutine while audio is playing.
func Play(ctx context.Context, src *Source, opts Options, onTick func()) error {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   opts.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   opts.Latency,
	})
	if err != nil {
		return fmt.Errorf("playback: open device: %w", err)
	}

	select {
	case <-ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	player := otoCtx.NewPlayer(src)
	defer player.Close()

	player.Play()
	opts.Log.Info().Int("sample_rate", opts.SampleRate).Dur("latency", opts.Latency).Msg("playback started")

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			opts.Log.Info().Int("frames", src.Position()).Msg("playback stopped")

			return nil
		case <-ticker.C:
			if onTick != nil {
				onTick()
			}
		}
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("playback: %w", err)
	}

	opts.Log.Info().Int("frames", src.Position()).Msg("playback finished")

	return nil
}
