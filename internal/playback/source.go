// Package playback plays a clip through the equalizer in real time. The
// output device pulls audio from a Source, so Source.Read runs on the
// device's audio goroutine and calls ProcessBlock there.
package playback

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/spectrum-eq/internal/audiofile"
)

const bytesPerFrame = 2 * 4 // stereo float32

// ErrInvalidBlockSize is returned by NewSource for a non-positive block.
var ErrInvalidBlockSize = errors.New("playback: block size must be > 0")

// BlockProcessor filters planar channels in place.
type BlockProcessor interface {
	ProcessBlock(channels [][]float64)
}

// Source renders a clip through a BlockProcessor as interleaved float32
// little-endian frames.
type Source struct {
	clip  *audiofile.Clip
	proc  BlockProcessor
	block int

	pos     atomic.Int64
	scratch [2][]float64
	view    [][]float64
}

// NewSource returns a source that processes at most block frames per
// ProcessBlock call.
func NewSource(clip *audiofile.Clip, proc BlockProcessor, block int) (*Source, error) {
	if block <= 0 {
		return nil, ErrInvalidBlockSize
	}

	return &Source{
		clip:    clip,
		proc:    proc,
		block:   block,
		scratch: [2][]float64{make([]float64, block), make([]float64, block)},
		view:    make([][]float64, 2),
	}, nil
}

// Read fills p with whole frames. It returns io.EOF once the clip is
// exhausted. Read does not allocate.
func (s *Source) Read(p []byte) (int, error) {
	total := s.clip.Frames()
	pos := int(s.pos.Load())

	if pos >= total {
		return 0, io.EOF
	}

	frames := min(len(p)/bytesPerFrame, total-pos)
	written := 0

	for written < frames {
		n := min(s.block, frames-written)
		for ch := range 2 {
			copy(s.scratch[ch][:n], s.clip.Channels[ch][pos:pos+n])
			s.view[ch] = s.scratch[ch][:n]
		}

		s.proc.ProcessBlock(s.view)

		out := p[written*bytesPerFrame:]
		for i := range n {
			binary.LittleEndian.PutUint32(out[i*8:], math.Float32bits(float32(s.view[0][i])))
			binary.LittleEndian.PutUint32(out[i*8+4:], math.Float32bits(float32(s.view[1][i])))
		}

		written += n
		pos += n
	}

	s.pos.Store(int64(pos))

	return written * bytesPerFrame, nil
}

// Position returns the number of frames rendered so far. Safe to call
// from any goroutine.
func (s *Source) Position() int {
	return int(s.pos.Load())
}

// Done reports whether every frame was rendered.
func (s *Source) Done() bool {
	return s.Position() >= s.clip.Frames()
}
