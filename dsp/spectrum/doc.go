// Package spectrum turns audio blocks into a renderable magnitude overlay.
//
// The pipeline per channel is:
//
//	BlockFIFO -> Rolling -> FFTDataGenerator -> PathProducer -> Path
//
// [ChannelAnalyzer] drives it: popped blocks are shifted into a rolling
// buffer, and once enough fresh samples have arrived the buffer is
// windowed, transformed and converted to dB. [PathProducer] maps each
// ready FFT block onto display coordinates over a logarithmic frequency
// axis and keeps only the newest path.
//
// Everything here runs on the analysis goroutine and may allocate.
// [PathProducer.Poll] and [PathProducer.Latest] are safe to call from a
// different goroutine.
package spectrum
