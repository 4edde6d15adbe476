// Package eq is the six-band equalizer core: the parameter layout and its
// lock-free snapshot, the band coefficient designers, the per-channel
// filter chain and the analytic response curve.
//
// The band topology is fixed:
//
//	LowCut -> LowPeak -> LowMidPeak -> HighMidPeak -> HighPeak -> HighCut
//
// Parameters are written by a control goroutine and read with one atomic
// load per value. The audio goroutine captures a [Settings] snapshot once
// per block, designs [Coefficients] from it and loads them into its
// [MonoChain]s. The analysis goroutine designs its own shadow chain from
// its own snapshot, so the live chain is never shared.
package eq
