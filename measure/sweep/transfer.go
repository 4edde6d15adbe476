package sweep

import (
	"fmt"
	"math"
	"math/bits"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// regularization is the floor of the excitation power relative to its
// peak. Bins below it are treated as unmeasured.
const regularization = 1e-10

// Transfer is a measured frequency response H = Y/X on an FFT grid.
type Transfer struct {
	bins       []complex128
	binWidth   float64
	sampleRate float64
}

// Measure divides the spectrum of response by the spectrum of excitation.
// Both are zero padded to a common power-of-two length, so the response
// must include the full ring-out of the system.
func Measure(excitation, response []float64, sampleRate float64) (*Transfer, error) {
	if len(response) == 0 || len(excitation) == 0 {
		return nil, ErrEmptyResponse
	}

	if !(sampleRate > 0) {
		return nil, ErrInvalidSampleRate
	}

	size := nextPowerOf2(max(len(excitation), len(response)))

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("sweep: fft plan: %w", err)
	}

	x, err := forward(plan, excitation, size)
	if err != nil {
		return nil, err
	}

	y, err := forward(plan, response, size)
	if err != nil {
		return nil, err
	}

	peak := 0.0
	for _, v := range x {
		peak = math.Max(peak, real(v)*real(v)+imag(v)*imag(v))
	}

	eps := peak * regularization

	half := size/2 + 1
	bins := make([]complex128, half)
	for k := range bins {
		xk := x[k]
		power := real(xk)*real(xk) + imag(xk)*imag(xk)
		conj := complex(real(xk), -imag(xk))
		bins[k] = y[k] * conj / complex(power+eps, 0)
	}

	return &Transfer{
		bins:       bins,
		binWidth:   sampleRate / float64(size),
		sampleRate: sampleRate,
	}, nil
}

func forward(plan *algofft.Plan[complex128], data []float64, size int) ([]complex128, error) {
	in := make([]complex128, size)
	for i, v := range data {
		in[i] = complex(v, 0)
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("sweep: forward fft: %w", err)
	}

	return out, nil
}

// BinWidth returns the frequency spacing of the measurement in Hz.
func (t *Transfer) BinWidth() float64 {
	return t.binWidth
}

// Magnitude returns |H(freq)|, interpolated linearly between bins.
func (t *Transfer) Magnitude(freq float64) float64 {
	pos := freq / t.binWidth
	last := len(t.bins) - 1

	if pos <= 0 {
		return cabs(t.bins[0])
	}

	if pos >= float64(last) {
		return cabs(t.bins[last])
	}

	k := int(pos)
	frac := pos - float64(k)

	return cabs(t.bins[k])*(1-frac) + cabs(t.bins[k+1])*frac
}

// MagnitudeDB returns 20·log10|H(freq)|.
func (t *Transfer) MagnitudeDB(freq float64) float64 {
	return 20 * math.Log10(t.Magnitude(freq))
}

// MagnitudesDB evaluates MagnitudeDB at every frequency into dst.
func (t *Transfer) MagnitudesDB(freqs, dst []float64) []float64 {
	if cap(dst) < len(freqs) {
		dst = make([]float64, len(freqs))
	}

	dst = dst[:len(freqs)]
	for i, f := range freqs {
		dst[i] = t.MagnitudeDB(f)
	}

	return dst
}

func cabs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}
