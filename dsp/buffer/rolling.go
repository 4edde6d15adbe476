package buffer

// Rolling holds the most recent Len() samples of a stream. New samples are
// shifted in at the end and the oldest fall off the front.
type Rolling struct {
	data []float64
}

// NewRolling returns a zero-filled rolling buffer of size samples.
func NewRolling(size int) *Rolling {
	return &Rolling{data: make([]float64, max(size, 0))}
}

// Push shifts samples in. If samples is longer than the buffer only its
// tail is kept.
func (r *Rolling) Push(samples []float64) {
	size := len(r.data)
	if len(samples) >= size {
		copy(r.data, samples[len(samples)-size:])
		return
	}

	copy(r.data, r.data[len(samples):])
	copy(r.data[size-len(samples):], samples)
}

// Samples returns the buffer contents, oldest first. The slice is owned by
// the buffer and changes on the next Push.
func (r *Rolling) Samples() []float64 {
	return r.data
}

// Len returns the buffer size in samples.
func (r *Rolling) Len() int {
	return len(r.data)
}

// Reset zeroes the buffer.
func (r *Rolling) Reset() {
	clear(r.data)
}
