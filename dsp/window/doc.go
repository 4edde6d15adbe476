// Package window generates cosine-sum analysis windows for spectrum
// analysis. Use [WithPeriodic] for FFT framing.
package window
