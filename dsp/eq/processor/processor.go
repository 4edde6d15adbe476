package processor

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/cwbudde/spectrum-eq/dsp/buffer"
	"github.com/cwbudde/spectrum-eq/dsp/core"
	"github.com/cwbudde/spectrum-eq/dsp/eq"
)

// NumChannels is the number of channels the processor filters.
const NumChannels = 2

const defaultFIFOBlocks = 32

// ErrNilParameters is returned by New without a parameter set.
var ErrNilParameters = errors.New("processor: parameters must not be nil")

// Option configures a Processor.
type Option func(*config)

type config struct {
	log        zerolog.Logger
	align      eq.CutAlignment
	fifoBlocks int
}

// WithLogger sets the lifecycle logger. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *config) {
		c.log = log
	}
}

// WithCutAlignment selects the cut band design.
func WithCutAlignment(a eq.CutAlignment) Option {
	return func(c *config) {
		c.align = a
	}
}

// WithFIFOBlocks sets how many blocks each analysis bridge holds before
// the oldest is overwritten.
func WithFIFOBlocks(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.fifoBlocks = n
		}
	}
}

// bridges is the analysis side's view of one Prepare call.
type bridges struct {
	sampleRate float64
	blockSize  int
	fifos      [NumChannels]*buffer.BlockFIFO
}

// Processor filters audio through one MonoChain per channel and publishes
// the filtered output for analysis.
type Processor struct {
	params *eq.Parameters
	cfg    config

	prepared atomic.Bool
	bridges  atomic.Pointer[bridges]
	faults   atomic.Uint64

	stream     core.ProcessorConfig
	gen        uint64
	dirty      bool
	settings   eq.Settings
	coeffs     eq.Coefficients
	chains     [NumChannels]*eq.MonoChain
	collectors [NumChannels]*buffer.SampleCollector
	scratch    [NumChannels][]float64

	testHookProcess func()
}

// New returns an unprepared processor reading params. Until Prepare
// succeeds, ProcessBlock passes audio through.
func New(params *eq.Parameters, opts ...Option) (*Processor, error) {
	if params == nil {
		return nil, ErrNilParameters
	}

	cfg := config{log: zerolog.Nop(), fifoBlocks: defaultFIFOBlocks}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Processor{params: params, cfg: cfg}, nil
}

// Parameters returns the parameter set the processor reads.
func (p *Processor) Parameters() *eq.Parameters {
	return p.params
}

// Prepare allocates the chains and bridges for a stream and designs the
// initial coefficients. It must not run concurrently with ProcessBlock.
func (p *Processor) Prepare(sampleRate float64, maxBlockSize int) error {
	stream := core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithBlockSize(maxBlockSize),
		core.WithChannels(NumChannels),
	)
	if err := stream.Validate(); err != nil {
		return fmt.Errorf("processor: prepare: %w", err)
	}

	p.prepared.Store(false)

	b := &bridges{sampleRate: sampleRate, blockSize: maxBlockSize}
	for ch := range NumChannels {
		fifo, err := buffer.NewBlockFIFO(p.cfg.fifoBlocks, maxBlockSize)
		if err != nil {
			return fmt.Errorf("processor: prepare: %w", err)
		}

		b.fifos[ch] = fifo
		p.chains[ch] = eq.NewMonoChain()
		p.collectors[ch] = buffer.NewSampleCollector(fifo)
		p.scratch[ch] = make([]float64, maxBlockSize)
	}

	p.stream = stream
	p.dirty = true
	p.refresh()

	p.bridges.Store(b)
	p.prepared.Store(true)

	p.cfg.log.Info().
		Float64("sample_rate", sampleRate).
		Int("max_block", maxBlockSize).
		Int("fifo_blocks", b.fifos[0].Capacity()).
		Str("cut_alignment", p.cfg.align.String()).
		Msg("processor prepared")

	return nil
}

// Prepared reports whether Prepare has succeeded since the last release.
func (p *Processor) Prepared() bool {
	return p.prepared.Load()
}

// SampleRate returns the prepared sample rate, or 0.
func (p *Processor) SampleRate() float64 {
	if b := p.bridges.Load(); b != nil {
		return b.sampleRate
	}

	return 0
}

// Reset clears filter memory and any partially collected block.
func (p *Processor) Reset() {
	if !p.prepared.Load() {
		return
	}

	for ch := range NumChannels {
		p.chains[ch].Reset()
		p.collectors[ch].Reset()
	}

	p.cfg.log.Debug().Msg("processor reset")
}

// ReleaseResources is called when the stream stops. Filter state is
// cleared and the processor passes audio through until the next Prepare.
// Buffers stay allocated for reuse.
func (p *Processor) ReleaseResources() {
	p.Reset()
	p.prepared.Store(false)
	p.cfg.log.Debug().Uint64("faults", p.faults.Load()).Msg("processor released")
}

// GetChainSettings returns a snapshot of the current parameters.
func (p *Processor) GetChainSettings() eq.Settings {
	return p.params.Capture()
}

// Faults returns the number of blocks passed through unfiltered because
// processing failed or the block exceeded the prepared size.
func (p *Processor) Faults() uint64 {
	return p.faults.Load()
}

// ProcessBlock filters channels in place. One channel is processed with
// the left chain; channels beyond the second are left untouched. If the
// processor is unprepared the audio passes through. If anything goes wrong
// the block passes through unfiltered.
func (p *Processor) ProcessBlock(channels [][]float64) {
	if !p.prepared.Load() || len(channels) == 0 {
		return
	}

	n := min(len(channels), NumChannels)
	for ch := range n {
		if len(channels[ch]) > p.stream.MaxBlockSize {
			p.faults.Add(1)
			return
		}
	}

	if !p.filter(channels[:n]) {
		p.faults.Add(1)
		for ch := range NumChannels {
			p.chains[ch].Reset()
		}

		return
	}

	for ch := range n {
		copy(channels[ch], p.scratch[ch][:len(channels[ch])])
		p.collectors[ch].Update(channels[ch])
	}
}

// filter processes channels into the scratch buffers. The caller's
// buffers are only written once every channel succeeded.
func (p *Processor) filter(channels [][]float64) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	p.refresh()

	if p.testHookProcess != nil {
		p.testHookProcess()
	}

	for ch, in := range channels {
		buf := p.scratch[ch][:len(in)]
		copy(buf, in)
		p.chains[ch].Process(buf)
	}

	return true
}

// refresh redesigns the chains when a parameter changed since the last
// block.
func (p *Processor) refresh() {
	gen := p.params.Generation()
	if gen == p.gen && !p.dirty {
		return
	}

	p.gen = gen
	p.dirty = false
	p.settings = p.params.Capture()
	p.coeffs = eq.Design(&p.settings, p.stream.SampleRate, p.cfg.align)

	for ch := range NumChannels {
		p.chains[ch].Update(&p.coeffs, &p.settings)
	}
}
