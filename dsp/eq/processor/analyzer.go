package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cwbudde/spectrum-eq/dsp/eq"
	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
	"github.com/cwbudde/spectrum-eq/dsp/window"
)

// DefaultRefreshInterval is the analysis tick period, 60 Hz.
const DefaultRefreshInterval = time.Second / 60

// ErrNilProcessor is returned by NewAnalyzer without a processor.
var ErrNilProcessor = errors.New("processor: analyzer needs a processor")

// AnalyzerConfig controls the spectrum pipeline of both channels.
type AnalyzerConfig struct {
	Order     spectrum.FFTOrder
	Window    window.Type
	FloorDB   float64
	QueueSize int
	// Hop is the number of fresh samples between transforms. Zero means
	// one prepared block.
	Hop  int
	Path spectrum.PathConfig
}

// DefaultAnalyzerConfig returns a 2048-point Blackman-Harris analysis with
// a -48 dB floor.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		Order:   spectrum.Order2048,
		Window:  window.TypeBlackmanHarris,
		FloorDB: spectrum.DefaultFloorDB,
		Path:    spectrum.DefaultPathConfig(),
	}
}

// Analyzer consumes the processor's bridges on the analysis goroutine.
// Tick, GetMagnitudesForDisplay and ResponsePath serialize on a mutex;
// PollSpectrumPath is lock-free.
type Analyzer struct {
	proc *Processor
	cfg  AnalyzerConfig
	log  zerolog.Logger

	mu        sync.Mutex
	bridges   *bridges
	channels  [NumChannels]*spectrum.ChannelAnalyzer
	producers [NumChannels]*spectrum.PathProducer
	curve     *eq.ResponseCurve
	curveGen  uint64
	curveOK   bool
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithAnalyzerLogger sets the analyzer logger.
func WithAnalyzerLogger(log zerolog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		a.log = log
	}
}

// NewAnalyzer returns an analyzer for p. The path producers exist from the
// start, so PollSpectrumPath can be called before the first Tick.
func NewAnalyzer(p *Processor, cfg AnalyzerConfig, opts ...AnalyzerOption) (*Analyzer, error) {
	if p == nil {
		return nil, ErrNilProcessor
	}

	if _, err := spectrum.NewFFTDataGenerator(cfg.Order); err != nil {
		return nil, fmt.Errorf("processor: analyzer: %w", err)
	}

	a := &Analyzer{
		proc:  p,
		cfg:   cfg,
		log:   zerolog.Nop(),
		curve: eq.NewResponseCurve(p.cfg.align),
	}
	for ch := range NumChannels {
		a.producers[ch] = spectrum.NewPathProducer(cfg.Path)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a, nil
}

// Tick runs one analysis frame: it refreshes the response curve if the
// parameters changed and, when the analyzer is enabled, drains both
// bridges into new spectrum paths mapped onto bounds.
func (a *Analyzer) Tick(bounds spectrum.Bounds) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.refreshCurve()

	if !a.proc.params.Capture().AnalyzerEnabled {
		return nil
	}

	b := a.proc.bridges.Load()
	if b == nil {
		return nil
	}

	if b != a.bridges {
		if err := a.attach(b); err != nil {
			return err
		}
	}

	var errs []error
	for ch, ca := range a.channels {
		if _, err := ca.Process(bounds, b.sampleRate); err != nil {
			errs = append(errs, fmt.Errorf("channel %d: %w", ch, err))
		}
	}

	return errors.Join(errs...)
}

// attach builds channel analyzers for a new set of bridges.
func (a *Analyzer) attach(b *bridges) error {
	for ch := range NumChannels {
		gen, err := spectrum.NewFFTDataGenerator(a.cfg.Order,
			spectrum.WithWindow(a.cfg.Window),
			spectrum.WithFloorDB(a.cfg.FloorDB),
			spectrum.WithQueueSize(a.cfg.QueueSize),
		)
		if err != nil {
			return fmt.Errorf("processor: analyzer: %w", err)
		}

		a.producers[ch].Reset()
		a.channels[ch] = spectrum.NewChannelAnalyzer(b.fifos[ch], gen, a.producers[ch], a.cfg.Hop)
	}

	a.bridges = b
	a.log.Info().
		Int("fft_size", a.cfg.Order.Size()).
		Str("window", a.cfg.Window.String()).
		Int("block", b.blockSize).
		Int("hop", a.channels[0].Hop()).
		Msg("analyzer attached")

	return nil
}

func (a *Analyzer) refreshCurve() {
	sr := a.proc.SampleRate()
	gen := a.proc.params.Generation()

	if a.curveOK && gen == a.curveGen && sr == a.curve.SampleRate() {
		return
	}

	a.curve.Update(a.proc.params.Capture(), sr)
	a.curveGen = gen
	a.curveOK = sr > 0
}

// GetMagnitudesForDisplay returns the response of the current parameters
// in dB at each frequency. Before Prepare the curve is flat.
func (a *Analyzer) GetMagnitudesForDisplay(freqs []float64) []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.refreshCurve()

	return a.curve.Magnitudes(freqs, nil)
}

// ResponsePath maps the response curve onto bounds.
func (a *Analyzer) ResponsePath(bounds spectrum.Bounds) spectrum.Path {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.refreshCurve()

	return a.curve.Path(bounds)
}

// PollSpectrumPath returns the newest spectrum path of channel if one was
// produced since the previous poll.
func (a *Analyzer) PollSpectrumPath(channel int) (spectrum.Path, bool) {
	if channel < 0 || channel >= NumChannels {
		return nil, false
	}

	return a.producers[channel].Poll()
}

// Dropped returns the number of blocks the bridges discarded because the
// analyzer fell behind.
func (a *Analyzer) Dropped() uint64 {
	b := a.proc.bridges.Load()
	if b == nil {
		return 0
	}

	var n uint64
	for _, f := range b.fifos {
		n += f.Dropped()
	}

	return n
}

// Run calls Tick every interval until ctx is done. Tick errors are logged
// and do not stop the loop.
func (a *Analyzer) Run(ctx context.Context, interval time.Duration, bounds spectrum.Bounds) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.log.Debug().Dur("interval", interval).Msg("analyzer running")

	var dropped uint64
	for {
		select {
		case <-ctx.Done():
			a.log.Debug().Uint64("dropped", a.Dropped()).Msg("analyzer stopped")
			return nil
		case <-ticker.C:
			if err := a.Tick(bounds); err != nil {
				a.log.Warn().Err(err).Msg("analysis tick failed")
			}

			if d := a.Dropped(); d != dropped {
				a.log.Debug().Uint64("dropped", d).Msg("analyzer fell behind")
				dropped = d
			}
		}
	}
}
