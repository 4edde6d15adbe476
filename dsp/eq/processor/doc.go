// Package processor is the host-facing surface of the equalizer.
//
// A [Processor] runs on the real-time audio goroutine: Prepare, Reset and
// ReleaseResources are lifecycle hooks called while no block is in flight,
// and ProcessBlock filters one stereo buffer in place. ProcessBlock never
// blocks, allocates, logs or returns an error.
//
// An [Analyzer] runs on a second goroutine. It drains the blocks the
// processor publishes, produces spectrum paths and keeps a shadow copy of
// the filter chain for the response curve.
package processor
