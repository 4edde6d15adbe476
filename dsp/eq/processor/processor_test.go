package processor

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/spectrum-eq/dsp/core"
	"github.com/cwbudde/spectrum-eq/dsp/eq"
	"github.com/cwbudde/spectrum-eq/dsp/spectrum"
	"github.com/cwbudde/spectrum-eq/internal/testutil"
	"github.com/cwbudde/spectrum-eq/measure/sweep"
)

func newPrepared(t *testing.T, sr float64, block int, opts ...Option) (*Processor, *eq.Parameters) {
	t.Helper()

	params := eq.NewParameters()
	p, err := New(params, opts...)
	if err != nil {
		t.Fatal(err)
	}

	if err := p.Prepare(sr, block); err != nil {
		t.Fatal(err)
	}

	return p, params
}

// run feeds src through p in blocks and returns the processed left and
// right channels.
func run(p *Processor, src []float64, block int) ([]float64, []float64) {
	left := append([]float64(nil), src...)
	right := append([]float64(nil), src...)

	for off := 0; off < len(src); off += block {
		end := min(off+block, len(src))
		p.ProcessBlock([][]float64{left[off:end], right[off:end]})
	}

	return left, right
}

func levelDB(t *testing.T, buf []float64, freq, sr, ref float64) float64 {
	t.Helper()

	amp, err := spectrum.ToneAmplitude(buf, freq, sr)
	if err != nil {
		t.Fatal(err)
	}

	return 20 * math.Log10(amp/ref)
}

func TestNew_NilParameters(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrNilParameters) {
		t.Fatalf("err = %v", err)
	}
}

func TestPrepare_Invalid(t *testing.T) {
	p, _ := New(eq.NewParameters())

	if err := p.Prepare(0, 512); !errors.Is(err, core.ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}

	if err := p.Prepare(48000, 0); !errors.Is(err, core.ErrInvalidBlockSize) {
		t.Fatalf("err = %v, want ErrInvalidBlockSize", err)
	}

	if p.Prepared() {
		t.Fatal("prepared after failed Prepare")
	}
}

func TestProcessBlock_UnpreparedPassesThrough(t *testing.T) {
	p, _ := New(eq.NewParameters())

	in := testutil.DeterministicNoise(1, 0.5, 256)
	left, right := run(p, in, 64)

	testutil.RequireSliceNearlyEqual(t, left, in, 0)
	testutil.RequireSliceNearlyEqual(t, right, in, 0)
}

// highCutOnly leaves only the high cut active at 8 kHz, 48 dB/oct.
func highCutOnly(params *eq.Parameters) {
	_ = params.Set(eq.IDLowCutBypassed, 1)
	for i := range eq.NumPeaks {
		_ = params.Set(eq.PeakBypassedID(i), 1)
	}

	_ = params.Set(eq.IDHighCutFreq, 8000)
	_ = params.Set(eq.IDHighCutSlope, float64(eq.Slope48))
}

func TestProcessBlock_HighCutEndToEnd(t *testing.T) {
	const sr = 96000.0

	p, params := newPrepared(t, sr, 256)
	highCutOnly(params)

	s := &sweep.LogSweep{StartFreq: 20, EndFreq: 40000, Duration: 2, SampleRate: sr}

	x, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}

	left, right := run(p, x, 256)
	testutil.RequireBitExact(t, right, left)

	tf, err := s.Measure(left)
	if err != nil {
		t.Fatal(err)
	}

	if got := tf.MagnitudeDB(32000); got > -40 {
		t.Fatalf("32 kHz attenuated by %.1f dB, want >= 40", -got)
	}

	for _, f := range []float64{100, 1000, 4000} {
		if got := tf.MagnitudeDB(f); math.Abs(got) > 0.1 {
			t.Fatalf("%.0f Hz: %.3f dB, want ~0", f, got)
		}
	}

	if got := tf.MagnitudeDB(8000); math.Abs(got+3.01) > 0.1 {
		t.Fatalf("8 kHz: %.3f dB, want -3 dB at the cutoff", got)
	}
}

func TestProcessBlock_HighCutTones(t *testing.T) {
	const sr = 96000.0

	p, params := newPrepared(t, sr, 256)
	highCutOnly(params)

	stop, _ := run(p, testutil.DeterministicSine(32000, sr, 0.5, 1<<15), 256)
	if got := levelDB(t, stop[8192:], 32000, sr, 0.5); got > -40 {
		t.Fatalf("32 kHz attenuated by %.1f dB, want >= 40", -got)
	}

	p.Reset()

	pass, _ := run(p, testutil.DeterministicSine(1000, sr, 0.5, 1<<15), 256)
	if got := levelDB(t, pass[8192:], 1000, sr, 0.5); math.Abs(got) > 0.1 {
		t.Fatalf("1 kHz level %.3f dB, want ~0", got)
	}
}

func TestProcessBlock_ParameterChangeAppliesNextBlock(t *testing.T) {
	const sr = 48000.0

	p, params := newPrepared(t, sr, 512)
	src := testutil.DeterministicSine(1000, sr, 0.25, 1<<14)

	flat, _ := run(p, src, 512)
	if got := levelDB(t, flat[4096:], 1000, sr, 0.25); math.Abs(got) > 0.1 {
		t.Fatalf("flat level %.3f dB", got)
	}

	_ = params.Set(eq.PeakFreqID(2), 1000)
	_ = params.Set(eq.PeakGainID(2), -12)

	cut, _ := run(p, src, 512)
	if got := levelDB(t, cut[4096:], 1000, sr, 0.25); math.Abs(got+12) > 0.1 {
		t.Fatalf("cut level %.3f dB, want -12", got)
	}
}

func TestProcessBlock_MonoUsesLeftChain(t *testing.T) {
	const sr = 44100.0

	p, params := newPrepared(t, sr, 128)
	_ = params.Set(eq.PeakGainID(0), 9)

	in := testutil.DeterministicNoise(5, 0.5, 512)
	mono := append([]float64(nil), in...)

	for off := 0; off < len(mono); off += 128 {
		p.ProcessBlock([][]float64{mono[off : off+128]})
	}

	s := params.Capture()
	coeffs := eq.Design(&s, sr, eq.AlignButterworth)
	ref := eq.NewMonoChain()
	ref.Update(&coeffs, &s)

	want := append([]float64(nil), in...)
	ref.Process(want)

	testutil.RequireSliceNearlyEqual(t, mono, want, 0)
}

func TestProcessBlock_ExtraChannelsUntouched(t *testing.T) {
	p, params := newPrepared(t, 48000, 64)
	_ = params.Set(eq.PeakGainID(1), 12)

	third := testutil.DeterministicNoise(9, 0.5, 64)
	keep := append([]float64(nil), third...)

	p.ProcessBlock([][]float64{make([]float64, 64), make([]float64, 64), third})

	testutil.RequireSliceNearlyEqual(t, third, keep, 0)
}

func TestProcessBlock_OversizedBlockPassesThrough(t *testing.T) {
	p, params := newPrepared(t, 48000, 64)
	_ = params.Set(eq.PeakGainID(1), 12)

	in := testutil.DeterministicNoise(2, 0.5, 65)
	buf := append([]float64(nil), in...)
	p.ProcessBlock([][]float64{buf, append([]float64(nil), in...)})

	testutil.RequireSliceNearlyEqual(t, buf, in, 0)

	if p.Faults() != 1 {
		t.Fatalf("Faults = %d", p.Faults())
	}
}

func TestProcessBlock_PanicPassesThrough(t *testing.T) {
	p, params := newPrepared(t, 48000, 64)
	_ = params.Set(eq.PeakGainID(1), 12)
	p.testHookProcess = func() { panic("boom") }

	in := testutil.DeterministicNoise(4, 0.5, 64)
	left := append([]float64(nil), in...)
	right := append([]float64(nil), in...)
	p.ProcessBlock([][]float64{left, right})

	testutil.RequireSliceNearlyEqual(t, left, in, 0)
	testutil.RequireSliceNearlyEqual(t, right, in, 0)

	if p.Faults() != 1 {
		t.Fatalf("Faults = %d", p.Faults())
	}

	p.testHookProcess = nil
	p.ProcessBlock([][]float64{left, right})

	if left[10] == in[10] {
		t.Fatal("processing did not resume after a fault")
	}
}

func TestProcessBlock_ZeroAlloc(t *testing.T) {
	p, params := newPrepared(t, 48000, 256)
	left := testutil.DeterministicNoise(1, 0.5, 256)
	right := testutil.DeterministicNoise(2, 0.5, 256)
	channels := [][]float64{left, right}

	gain := 0.0
	allocs := testing.AllocsPerRun(200, func() {
		gain = math.Mod(gain+0.5, 24)
		_ = params.Set(eq.PeakGainID(0), gain)
		p.ProcessBlock(channels)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}

func TestProcessBlock_FeedsBridges(t *testing.T) {
	p, _ := newPrepared(t, 48000, 128)
	run(p, testutil.DeterministicNoise(1, 0.5, 128*3), 128)

	b := p.bridges.Load()
	for ch, f := range b.fifos {
		if f.Available() != 3 {
			t.Fatalf("channel %d: %d blocks available, want 3", ch, f.Available())
		}
	}
}

func TestLifecycle(t *testing.T) {
	p, params := newPrepared(t, 48000, 64)
	_ = params.Set(eq.PeakGainID(0), 6)

	run(p, testutil.DeterministicNoise(1, 1, 256), 64)
	p.ReleaseResources()

	if p.Prepared() {
		t.Fatal("prepared after ReleaseResources")
	}

	in := testutil.DeterministicNoise(3, 0.5, 64)
	left := append([]float64(nil), in...)
	p.ProcessBlock([][]float64{left, make([]float64, 64)})
	testutil.RequireBitExact(t, left, in)

	if err := p.Prepare(48000, 64); err != nil {
		t.Fatal(err)
	}

	silence := make([]float64, 64)
	p.ProcessBlock([][]float64{silence, make([]float64, 64)})

	for i, v := range silence {
		if v != 0 {
			t.Fatalf("sample %d = %v after release", i, v)
		}
	}

	if err := p.Prepare(96000, 128); err != nil {
		t.Fatal(err)
	}

	if p.SampleRate() != 96000 {
		t.Fatalf("SampleRate = %v", p.SampleRate())
	}

	if p.GetChainSettings() != params.Capture() {
		t.Fatal("GetChainSettings differs from parameters")
	}
}

func BenchmarkProcessBlock(b *testing.B) {
	params := eq.NewParameters()
	_ = params.Set(eq.IDLowCutSlope, float64(eq.Slope48))
	_ = params.Set(eq.IDHighCutSlope, float64(eq.Slope48))

	p, _ := New(params)
	if err := p.Prepare(48000, 512); err != nil {
		b.Fatal(err)
	}

	channels := [][]float64{
		testutil.DeterministicNoise(1, 0.5, 512),
		testutil.DeterministicNoise(2, 0.5, 512),
	}

	b.ReportAllocs()
	b.ResetTimer()

	for range b.N {
		p.ProcessBlock(channels)
	}
}
