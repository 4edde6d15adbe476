package spectrum

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/spectrum-eq/dsp/core"
)

// Point is a display-space coordinate.
type Point struct {
	X, Y float64
}

// Path is a polyline in display space, left to right.
type Path []Point

// Bounds is the display rectangle a path is mapped into. Y grows downwards,
// so the top edge shows MaxDB.
type Bounds struct {
	X, Y, Width, Height float64
}

// Bottom returns the y coordinate of the lower edge.
func (b Bounds) Bottom() float64 {
	return b.Y + b.Height
}

// Columns returns the number of whole pixel columns.
func (b Bounds) Columns() int {
	return max(int(b.Width), 0)
}

// PathConfig controls the display mapping.
type PathConfig struct {
	MinFreq float64
	MaxFreq float64
	MinDB   float64
	MaxDB   float64
	// DecayDBPerFrame enables hold/decay smoothing: a column may fall by at
	// most this many dB per generated path and rises immediately. Zero
	// disables smoothing.
	DecayDBPerFrame float64
}

// DefaultPathConfig returns the 20 Hz to 20 kHz, -48 dB to +6 dB mapping
// without smoothing.
func DefaultPathConfig() PathConfig {
	return PathConfig{
		MinFreq: 20,
		MaxFreq: 20000,
		MinDB:   -48,
		MaxDB:   6,
	}
}

// PathProducer converts ready FFT blocks into display paths. Only the most
// recently generated path is retained.
type PathProducer struct {
	cfg  PathConfig
	held []float64

	latest    atomic.Pointer[Path]
	fresh     atomic.Bool
	generated atomic.Uint64
}

// NewPathProducer returns a producer for cfg. Degenerate ranges fall back
// to the defaults.
func NewPathProducer(cfg PathConfig) *PathProducer {
	def := DefaultPathConfig()
	if !(cfg.MinFreq > 0) || !(cfg.MaxFreq > cfg.MinFreq) {
		cfg.MinFreq, cfg.MaxFreq = def.MinFreq, def.MaxFreq
	}

	if !(cfg.MaxDB > cfg.MinDB) {
		cfg.MinDB, cfg.MaxDB = def.MinDB, def.MaxDB
	}

	cfg.DecayDBPerFrame = math.Max(cfg.DecayDBPerFrame, 0)

	return &PathProducer{cfg: cfg}
}

// Config returns the effective configuration.
func (p *PathProducer) Config() PathConfig {
	return p.cfg
}

// Generate maps fftData (dB per bin, bin k at k·binWidth Hz) onto bounds,
// one point per pixel column, and publishes the result as the latest path.
func (p *PathProducer) Generate(fftData []float64, bounds Bounds, binWidth float64) Path {
	cols := bounds.Columns()
	if cols == 0 || len(fftData) == 0 || !(binWidth > 0) {
		return nil
	}

	if len(p.held) != cols {
		p.held = make([]float64, cols)
		for i := range p.held {
			p.held[i] = math.Inf(-1)
		}
	}

	path := make(Path, cols)
	top, bottom := bounds.Y, bounds.Bottom()

	for col := range cols {
		prop := 0.0
		if cols > 1 {
			prop = float64(col) / float64(cols-1)
		}

		freq := core.MapToLog10(prop, p.cfg.MinFreq, p.cfg.MaxFreq)
		db := interpolateBin(fftData, freq/binWidth)

		if p.cfg.DecayDBPerFrame > 0 {
			db = math.Max(db, p.held[col]-p.cfg.DecayDBPerFrame)
			p.held[col] = db
		}

		db = core.Clamp(db, p.cfg.MinDB, p.cfg.MaxDB)
		path[col] = Point{
			X: bounds.X + float64(col),
			Y: core.MapLinear(db, p.cfg.MinDB, p.cfg.MaxDB, bottom, top),
		}
	}

	p.latest.Store(&path)
	p.fresh.Store(true)
	p.generated.Add(1)

	return path
}

// Poll returns the newest path if one was generated since the previous
// Poll. Older paths are never returned.
func (p *PathProducer) Poll() (Path, bool) {
	if !p.fresh.Swap(false) {
		return nil, false
	}

	return p.Latest()
}

// Latest returns the newest path regardless of whether it was polled.
func (p *PathProducer) Latest() (Path, bool) {
	path := p.latest.Load()
	if path == nil {
		return nil, false
	}

	return *path, true
}

// Generated returns the number of paths generated so far.
func (p *PathProducer) Generated() uint64 {
	return p.generated.Load()
}

// Reset forgets the held levels and the latest path.
func (p *PathProducer) Reset() {
	p.held = nil
	p.latest.Store(nil)
	p.fresh.Store(false)
}

func interpolateBin(data []float64, bin float64) float64 {
	last := len(data) - 1
	if bin <= 0 {
		return data[0]
	}

	if bin >= float64(last) {
		return data[last]
	}

	base := int(bin)
	frac := bin - float64(base)

	return data[base] + frac*(data[base+1]-data[base])
}
