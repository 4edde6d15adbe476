package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/spectrum-eq/dsp/core"
	"github.com/cwbudde/spectrum-eq/dsp/window"
)

// FFTOrder is the base-2 logarithm of the transform size.
type FFTOrder int

const (
	Order2048 FFTOrder = 11
	Order4096 FFTOrder = 12
	Order8192 FFTOrder = 13
)

// Size returns the transform length.
func (o FFTOrder) Size() int {
	return 1 << o
}

const (
	// DefaultFloorDB is the level ready blocks are clamped to from below.
	DefaultFloorDB = -48.0

	defaultQueueSize = 8
	minOrder         = 4
	maxOrder         = 16
)

var (
	// ErrInvalidOrder is returned for an unsupported FFTOrder.
	ErrInvalidOrder = errors.New("spectrum: fft order out of range")
	// ErrSizeMismatch is returned when Produce receives a block whose
	// length differs from the transform size.
	ErrSizeMismatch = errors.New("spectrum: block length does not match fft size")
)

// GeneratorOption configures an FFTDataGenerator.
type GeneratorOption func(*generatorConfig)

type generatorConfig struct {
	window       window.Type
	floorDB      float64
	queueSize    int
	coherentGain bool
}

// WithWindow selects the analysis window. Default Blackman-Harris.
func WithWindow(t window.Type) GeneratorOption {
	return func(c *generatorConfig) {
		c.window = t
	}
}

// WithFloorDB sets the dB floor. Values below it are clamped to it.
func WithFloorDB(db float64) GeneratorOption {
	return func(c *generatorConfig) {
		if core.IsFinite(db) {
			c.floorDB = db
		}
	}
}

// WithQueueSize bounds the number of ready blocks kept. When full the
// oldest ready block is dropped.
func WithQueueSize(n int) GeneratorOption {
	return func(c *generatorConfig) {
		if n > 0 {
			c.queueSize = n
		}
	}
}

// WithCoherentGain divides magnitudes by the window's coherent gain so a
// bin-centred full-scale sine reads 0 dB instead of the raw windowed level.
func WithCoherentGain() GeneratorOption {
	return func(c *generatorConfig) {
		c.coherentGain = true
	}
}

// FFTDataGenerator windows a block, transforms it and queues the resulting
// dB magnitudes of the first Size/2 bins.
type FFTDataGenerator struct {
	order   FFTOrder
	size    int
	floorDB float64

	plan   *algofft.Plan[complex128]
	window []float64
	scale  float64

	frame []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64

	queue [][]float64
	head  int
	count int
}

// NewFFTDataGenerator returns a generator for transforms of order.Size()
// samples.
func NewFFTDataGenerator(order FFTOrder, opts ...GeneratorOption) (*FFTDataGenerator, error) {
	if order < minOrder || order > maxOrder {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOrder, order)
	}

	cfg := generatorConfig{
		window:    window.TypeBlackmanHarris,
		floorDB:   DefaultFloorDB,
		queueSize: defaultQueueSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	size := order.Size()

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	win := window.Generate(cfg.window, size, window.WithPeriodic())

	numBins := size / 2
	scale := 1 / float64(numBins)
	if cfg.coherentGain {
		if cg, err := window.CoherentGain(win); err == nil {
			scale /= cg
		}
	}

	g := &FFTDataGenerator{
		order:   order,
		size:    size,
		floorDB: cfg.floorDB,
		plan:    plan,
		window:  win,
		scale:   scale,
		frame:   make([]float64, size),
		in:      make([]complex128, size),
		out:     make([]complex128, size),
		re:      make([]float64, numBins),
		im:      make([]float64, numBins),
		queue:   make([][]float64, cfg.queueSize),
	}
	for i := range g.queue {
		g.queue[i] = make([]float64, numBins)
	}

	return g, nil
}

// Order returns the transform order.
func (g *FFTDataGenerator) Order() FFTOrder {
	return g.order
}

// Size returns the transform length in samples.
func (g *FFTDataGenerator) Size() int {
	return g.size
}

// NumBins returns the number of values in each ready block.
func (g *FFTDataGenerator) NumBins() int {
	return g.size / 2
}

// FloorDB returns the configured dB floor.
func (g *FFTDataGenerator) FloorDB() float64 {
	return g.floorDB
}

// Produce transforms samples, which must hold exactly Size values, and
// queues the result.
func (g *FFTDataGenerator) Produce(samples []float64) error {
	if len(samples) != g.size {
		return fmt.Errorf("%w: got %d, want %d", ErrSizeMismatch, len(samples), g.size)
	}

	copy(g.frame, samples)
	vecmath.MulBlockInPlace(g.frame, g.window)

	for i, v := range g.frame {
		g.in[i] = complex(v, 0)
	}

	if err := g.plan.Forward(g.out, g.in); err != nil {
		return fmt.Errorf("spectrum: forward fft: %w", err)
	}

	for i := range g.re {
		g.re[i] = real(g.out[i])
		g.im[i] = imag(g.out[i])
	}

	dst := g.nextSlot()
	vecmath.Magnitude(dst, g.re, g.im)
	vecmath.ScaleBlock(dst, dst, g.scale)

	for i, v := range dst {
		dst[i] = core.GainToDB(v, g.floorDB)
	}

	return nil
}

// Available returns the number of queued ready blocks.
func (g *FFTDataGenerator) Available() int {
	return g.count
}

// Pull copies the oldest ready block into dst and removes it from the
// queue. It returns false if the queue is empty.
func (g *FFTDataGenerator) Pull(dst []float64) bool {
	if g.count == 0 {
		return false
	}

	copy(dst, g.queue[g.head])
	g.head = (g.head + 1) % len(g.queue)
	g.count--

	return true
}

// Reset drops all queued blocks.
func (g *FFTDataGenerator) Reset() {
	g.head = 0
	g.count = 0
}

func (g *FFTDataGenerator) nextSlot() []float64 {
	if g.count == len(g.queue) {
		g.head = (g.head + 1) % len(g.queue)
		g.count--
	}

	slot := g.queue[(g.head+g.count)%len(g.queue)]
	g.count++

	return slot
}
