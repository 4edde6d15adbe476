// Package buffer moves audio from the real-time thread to the analysis
// thread.
//
// [BlockFIFO] is a bounded single-producer/single-consumer queue of
// fixed-size sample blocks. The producer never blocks: when the queue is
// full the oldest unread block is overwritten. [SampleCollector] gathers
// arbitrary-length host buffers into FIFO-sized blocks on the producer
// side, and [Rolling] keeps the most recent N samples on the consumer side.
package buffer
