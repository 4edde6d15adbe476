// Package audiofile decodes WAV, MP3 and FLAC files into planar float64
// channels and writes processed audio back as WAV.
package audiofile

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// ErrUnsupportedFormat is returned for an unknown file extension.
var ErrUnsupportedFormat = errors.New("audiofile: unsupported format")

// streamChunk is the number of frames pulled from a decoder at a time.
const streamChunk = 4096

// Clip is a decoded stereo signal. Mono sources are duplicated onto both
// channels.
type Clip struct {
	SampleRate int
	Channels   [2][]float64
}

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	return len(c.Channels[0])
}

// Planar returns the channels as a host-style buffer sharing c's memory.
func (c *Clip) Planar() [][]float64 {
	return [][]float64{c.Channels[0], c.Channels[1]}
}

// DecodeFile opens path and decodes it by extension.
func DecodeFile(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audiofile: %w", err)
	}

	clip, err := Decode(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("audiofile: %s: %w", path, err)
	}

	return clip, nil
}

// Decode reads a whole stream in the format named by ext (".wav", ".mp3"
// or ".flac") and closes rc.
func Decode(rc io.ReadCloser, ext string) (*Clip, error) {
	var (
		stream beep.StreamSeekCloser
		format beep.Format
		err    error
	)

	isWAV := false

	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "wav", "wave":
		isWAV = true
		stream, format, err = wav.Decode(rc)
	case "mp3":
		stream, format, err = mp3.Decode(rc)
	case "flac":
		stream, format, err = flac.Decode(rc)
	default:
		_ = rc.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer stream.Close()

	scale := 1.0
	if isWAV {
		scale = wavScale(format.Precision)
	}

	clip := &Clip{SampleRate: int(format.SampleRate)}
	if n := stream.Len(); n > 0 {
		clip.Channels[0] = make([]float64, 0, n)
		clip.Channels[1] = make([]float64, 0, n)
	}

	buf := make([][2]float64, streamChunk)
	for {
		n, ok := stream.Stream(buf)
		for _, frame := range buf[:n] {
			clip.Channels[0] = append(clip.Channels[0], frame[0]*scale)
			clip.Channels[1] = append(clip.Channels[1], frame[1]*scale)
		}

		if !ok {
			break
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	return clip, nil
}

// wavScale corrects the beep wav decoder, which divides signed PCM by
// 2^bits-1 instead of 2^(bits-1). Full scale must decode to ±1.
func wavScale(precision int) float64 {
	if precision < 2 {
		return 1
	}

	bits := float64(8 * precision)

	return (math.Exp2(bits) - 1) / math.Exp2(bits-1)
}

// Streamer returns a beep.Streamer that plays c from the start.
func (c *Clip) Streamer() beep.Streamer {
	return &clipStreamer{clip: c}
}

type clipStreamer struct {
	clip *Clip
	pos  int
}

func (s *clipStreamer) Stream(samples [][2]float64) (int, bool) {
	n := min(len(samples), s.clip.Frames()-s.pos)
	if n <= 0 {
		return 0, false
	}

	for i := range n {
		samples[i][0] = s.clip.Channels[0][s.pos+i]
		samples[i][1] = s.clip.Channels[1][s.pos+i]
	}

	s.pos += n

	return n, true
}

func (s *clipStreamer) Err() error {
	return nil
}

// EncodeWAV writes c as 16-bit stereo PCM, or 24-bit when highRes is set.
func EncodeWAV(w io.WriteSeeker, c *Clip, highRes bool) error {
	format := beep.Format{
		SampleRate:  beep.SampleRate(c.SampleRate),
		NumChannels: 2,
		Precision:   2,
	}
	if highRes {
		format.Precision = 3
	}

	if err := wav.Encode(w, c.Streamer(), format); err != nil {
		return fmt.Errorf("audiofile: encode wav: %w", err)
	}

	return nil
}

// WriteWAVFile creates path and encodes c into it.
func WriteWAVFile(path string, c *Clip, highRes bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("audiofile: %w", err)
	}

	if err := EncodeWAV(f, c, highRes); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
