// Package sweep measures the magnitude response of a processing chain with
// a logarithmic sine sweep.
//
// The sweep is played through the system under test and the recorded
// output is divided by the excitation in the frequency domain:
//
//	s := &sweep.LogSweep{StartFreq: 20, EndFreq: 20000, Duration: 2, SampleRate: 48000}
//	excitation, _ := s.Generate()
//	// ... run excitation through the equalizer, keep Tail extra samples ...
//	tf, _ := s.Measure(response)
//	db := tf.MagnitudesDB(freqs, nil)
//
// Inside the swept band the measured magnitude of a linear system matches
// its analytic response to within a small fraction of a dB.
package sweep
