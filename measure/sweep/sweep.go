package sweep

import (
	"errors"
	"math"
)

// Errors returned by sweep functions.
var (
	ErrInvalidFrequency  = errors.New("sweep: frequency must be positive")
	ErrInvalidDuration   = errors.New("sweep: duration must be positive")
	ErrInvalidSampleRate = errors.New("sweep: sample rate must be positive")
	ErrFrequencyOrder    = errors.New("sweep: start frequency must be less than end frequency")
	ErrEmptyResponse     = errors.New("sweep: response signal is empty")
)

// LogSweep is an exponential sine sweep. Each octave takes the same time.
type LogSweep struct {
	StartFreq  float64 // Hz
	EndFreq    float64 // Hz
	Duration   float64 // seconds
	SampleRate float64 // Hz
	// Amplitude is the peak level. Zero means 0.5.
	Amplitude float64
}

// Validate checks the sweep parameters.
func (s *LogSweep) Validate() error {
	if !(s.StartFreq > 0) || !(s.EndFreq > 0) {
		return ErrInvalidFrequency
	}

	if s.StartFreq >= s.EndFreq {
		return ErrFrequencyOrder
	}

	if !(s.Duration > 0) {
		return ErrInvalidDuration
	}

	if !(s.SampleRate > 0) {
		return ErrInvalidSampleRate
	}

	if s.EndFreq >= s.SampleRate/2 {
		return ErrInvalidFrequency
	}

	return nil
}

// Len returns the number of sweep samples.
func (s *LogSweep) Len() int {
	return int(math.Round(s.Duration * s.SampleRate))
}

// Tail returns a recommended number of silent samples to append after the
// sweep so the filter ring-out is captured: a tenth of the sweep.
func (s *LogSweep) Tail() int {
	return s.Len() / 10
}

// FrequencyAt returns the instantaneous frequency at time t seconds.
func (s *LogSweep) FrequencyAt(t float64) float64 {
	return s.StartFreq * math.Exp(t/s.Duration*math.Log(s.EndFreq/s.StartFreq))
}

// Generate returns the sweep followed by Tail samples of silence.
//
//	x(t) = A·sin(2π·f1·T/ln(f2/f1)·(exp(t/T·ln(f2/f1)) - 1))
func (s *LogSweep) Generate() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	amp := s.Amplitude
	if amp == 0 {
		amp = 0.5
	}

	n := s.Len()
	out := make([]float64, n+s.Tail())

	lnRatio := math.Log(s.EndFreq / s.StartFreq)
	k := 2 * math.Pi * s.StartFreq * s.Duration / lnRatio

	for i := range n {
		t := float64(i) / s.SampleRate
		out[i] = amp * math.Sin(k*(math.Exp(t/s.Duration*lnRatio)-1))
	}

	return out, nil
}

// Measure estimates the transfer function from the system's response to
// the output of Generate.
func (s *LogSweep) Measure(response []float64) (*Transfer, error) {
	excitation, err := s.Generate()
	if err != nil {
		return nil, err
	}

	return Measure(excitation, response, s.SampleRate)
}
