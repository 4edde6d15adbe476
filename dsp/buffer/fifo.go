package buffer

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sync/atomic"
)

var (
	// ErrInvalidCapacity is returned for a non-positive slot count.
	ErrInvalidCapacity = errors.New("buffer: capacity must be > 0")
	// ErrInvalidBlockSize is returned for a non-positive block size.
	ErrInvalidBlockSize = errors.New("buffer: block size must be > 0")
)

// BlockFIFO is a lossy lock-free ring of sample blocks for exactly one
// producer goroutine and one consumer goroutine.
//
// Each slot carries a sequence word: 2g+1 while generation g is being
// written and 2g+2 once it is published. The consumer checks the word
// before and after copying and skips a slot that the producer lapped in the
// meantime, so a popped block is never torn. Samples are stored as atomic
// float64 bits to keep the structure free of data races.
type BlockFIFO struct {
	blockSize int
	mask      uint64
	slots     []fifoSlot

	written atomic.Uint64 // blocks published by the producer
	dropped atomic.Uint64 // blocks skipped by the consumer

	read uint64 // consumer only
}

type fifoSlot struct {
	seq  atomic.Uint64
	n    atomic.Int64
	data []atomic.Uint64
}

// NewBlockFIFO allocates a FIFO with at least capacity slots of blockSize
// samples each. The slot count is rounded up to a power of two.
func NewBlockFIFO(capacity, blockSize int) (*BlockFIFO, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	size := nextPowerOfTwo(uint64(capacity))
	f := &BlockFIFO{
		blockSize: blockSize,
		mask:      size - 1,
		slots:     make([]fifoSlot, size),
	}
	for i := range f.slots {
		f.slots[i].data = make([]atomic.Uint64, blockSize)
	}

	return f, nil
}

// Capacity returns the number of slots.
func (f *BlockFIFO) Capacity() int {
	return len(f.slots)
}

// BlockSize returns the number of samples per slot.
func (f *BlockFIFO) BlockSize() int {
	return f.blockSize
}

// Push publishes samples as one block. Input longer than the block size is
// split into consecutive blocks. Producer side only. Never blocks and never
// allocates; a full ring loses its oldest block.
func (f *BlockFIFO) Push(samples []float64) {
	for len(samples) > 0 {
		n := min(len(samples), f.blockSize)
		f.pushBlock(samples[:n])
		samples = samples[n:]
	}
}

func (f *BlockFIFO) pushBlock(samples []float64) {
	gen := f.written.Load()
	s := &f.slots[gen&f.mask]

	s.seq.Store(2*gen + 1)
	for i, v := range samples {
		s.data[i].Store(math.Float64bits(v))
	}
	s.n.Store(int64(len(samples)))
	s.seq.Store(2*gen + 2)

	f.written.Store(gen + 1)
}

// Available returns the number of blocks the consumer could pop now.
// Consumer side only.
func (f *BlockFIFO) Available() int {
	pending := f.written.Load() - f.read
	return int(min(pending, uint64(len(f.slots))))
}

// Pop copies the oldest unread block into out and returns the number of
// valid samples. It returns false when no block is available. out should
// hold at least BlockSize samples; a shorter out receives a truncated
// block. Consumer side only; never blocks.
func (f *BlockFIFO) Pop(out []float64) (int, bool) {
	size := uint64(len(f.slots))

	for {
		written := f.written.Load()
		if f.read >= written {
			return 0, false
		}

		if behind := written - f.read; behind > size {
			f.dropped.Add(behind - size)
			f.read = written - size
		}

		gen := f.read
		s := &f.slots[gen&f.mask]
		f.read++

		want := 2*gen + 2
		if s.seq.Load() != want {
			f.dropped.Add(1)
			continue
		}

		n := min(int(s.n.Load()), len(out))
		for i := range n {
			out[i] = math.Float64frombits(s.data[i].Load())
		}

		if s.seq.Load() != want {
			f.dropped.Add(1)
			continue
		}

		return n, true
	}
}

// Clear discards every unread block. Consumer side only.
func (f *BlockFIFO) Clear() {
	f.read = f.written.Load()
}

// Dropped returns how many blocks the consumer skipped because the
// producer had overwritten them. Diagnostic only.
func (f *BlockFIFO) Dropped() uint64 {
	return f.dropped.Load()
}

func nextPowerOfTwo(n uint64) uint64 {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len64(n-1)
}
