package buffer

// SampleCollector gathers samples from arbitrarily sized host buffers into
// fixed blocks and pushes each full block into a BlockFIFO. It belongs to
// the producer goroutine and does not allocate after construction.
type SampleCollector struct {
	fifo *BlockFIFO
	buf  []float64
	fill int
}

// NewSampleCollector returns a collector feeding fifo.
func NewSampleCollector(fifo *BlockFIFO) *SampleCollector {
	return &SampleCollector{
		fifo: fifo,
		buf:  make([]float64, fifo.BlockSize()),
	}
}

// Update appends samples and publishes every completed block.
func (c *SampleCollector) Update(samples []float64) {
	for len(samples) > 0 {
		n := copy(c.buf[c.fill:], samples)
		c.fill += n
		samples = samples[n:]

		if c.fill == len(c.buf) {
			c.fifo.Push(c.buf)
			c.fill = 0
		}
	}
}

// Pending returns the number of samples waiting for a full block.
func (c *SampleCollector) Pending() int {
	return c.fill
}

// Reset discards a partially filled block.
func (c *SampleCollector) Reset() {
	c.fill = 0
}

// FIFO returns the queue the collector feeds.
func (c *SampleCollector) FIFO() *BlockFIFO {
	return c.fifo
}
