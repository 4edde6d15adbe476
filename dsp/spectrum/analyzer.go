package spectrum

import (
	"github.com/cwbudde/spectrum-eq/dsp/buffer"
)

// State is the accumulation state of a ChannelAnalyzer.
type State int

const (
	// StateAccumulating waits for enough fresh samples.
	StateAccumulating State = iota
	// StateReady has enough fresh samples for the next transform.
	StateReady
)

func (s State) String() string {
	if s == StateReady {
		return "ready"
	}

	return "accumulating"
}

// ChannelAnalyzer owns the consumer side of one channel's bridge.
type ChannelAnalyzer struct {
	fifo     *buffer.BlockFIFO
	rolling  *buffer.Rolling
	gen      *FFTDataGenerator
	producer *PathProducer

	hop   int
	fresh int
	state State

	block   []float64
	fftData []float64
}

// NewChannelAnalyzer wires fifo, gen and producer together. A transform is
// due after hop fresh samples; hop <= 0 means one FIFO block, which yields
// overlapping transforms.
func NewChannelAnalyzer(fifo *buffer.BlockFIFO, gen *FFTDataGenerator, producer *PathProducer, hop int) *ChannelAnalyzer {
	if hop <= 0 {
		hop = fifo.BlockSize()
	}

	return &ChannelAnalyzer{
		fifo:     fifo,
		rolling:  buffer.NewRolling(gen.Size()),
		gen:      gen,
		producer: producer,
		hop:      hop,
		block:    make([]float64, fifo.BlockSize()),
		fftData:  make([]float64, gen.NumBins()),
	}
}

// State returns the current accumulation state.
func (a *ChannelAnalyzer) State() State {
	return a.state
}

// Hop returns the number of fresh samples between transforms.
func (a *ChannelAnalyzer) Hop() int {
	return a.hop
}

// Producer returns the path producer.
func (a *ChannelAnalyzer) Producer() *PathProducer {
	return a.producer
}

// Ingest shifts samples into the rolling buffer.
func (a *ChannelAnalyzer) Ingest(samples []float64) {
	a.rolling.Push(samples)
	a.fresh += len(samples)

	if a.fresh >= a.hop {
		a.state = StateReady
	}
}

// Transform runs the FFT if the analyzer is ready and returns to
// accumulating. It reports whether a transform ran.
func (a *ChannelAnalyzer) Transform() (bool, error) {
	if a.state != StateReady {
		return false, nil
	}

	a.state = StateAccumulating
	a.fresh = 0

	if err := a.gen.Produce(a.rolling.Samples()); err != nil {
		return false, err
	}

	return true, nil
}

// Process drains the FIFO, transforming whenever enough fresh samples have
// arrived, then turns every ready FFT block into a path. It returns the
// number of paths generated; only the last one is retained.
func (a *ChannelAnalyzer) Process(bounds Bounds, sampleRate float64) (int, error) {
	for {
		n, ok := a.fifo.Pop(a.block)
		if !ok {
			break
		}

		a.Ingest(a.block[:n])

		if _, err := a.Transform(); err != nil {
			return 0, err
		}
	}

	binWidth := sampleRate / float64(a.gen.Size())

	paths := 0
	for a.gen.Pull(a.fftData) {
		if a.producer.Generate(a.fftData, bounds, binWidth) != nil {
			paths++
		}
	}

	return paths, nil
}

// Reset clears the rolling buffer, pending FFT blocks and held path levels.
func (a *ChannelAnalyzer) Reset() {
	a.rolling.Reset()
	a.gen.Reset()
	a.producer.Reset()
	a.fresh = 0
	a.state = StateAccumulating
}
