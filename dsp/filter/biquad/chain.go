package biquad

// Chain is a fixed-capacity cascade of biquad sections processed in series.
//
// All sections are allocated up front. Loading fewer coefficient sets than
// the capacity turns the remaining sections into identity sections; they stay
// in the cascade but are skipped during processing. Changing the number of
// active sections therefore never allocates and never disturbs the state of
// sections that remain active.
type Chain struct {
	sections []Section
	identity []bool
}

// NewChain allocates a cascade of capacity identity sections.
func NewChain(capacity int) *Chain {
	if capacity < 0 {
		capacity = 0
	}

	c := &Chain{
		sections: make([]Section, capacity),
		identity: make([]bool, capacity),
	}
	for i := range c.sections {
		c.sections[i].Coefficients = Identity()
		c.identity[i] = true
	}

	return c
}

// Load replaces the coefficients of the first len(coeffs) sections and sets
// the rest to identity. Extra coefficient sets beyond the capacity are
// ignored. Delay-line state is preserved, so the new response takes effect
// from the next processed sample without any interpolation. Zero-alloc.
func (c *Chain) Load(coeffs []Coefficients) {
	for i := range c.sections {
		cs := Identity()
		if i < len(coeffs) {
			cs = coeffs[i]
		}

		c.sections[i].Coefficients = cs
		c.identity[i] = cs.IsIdentity()
	}
}

// ProcessSample cascades input through all non-identity sections in order.
func (c *Chain) ProcessSample(x float64) float64 {
	for i := range c.sections {
		if c.identity[i] {
			continue
		}

		x = c.sections[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters a block in-place through the cascade. Identity
// sections are skipped.
func (c *Chain) ProcessBlock(buf []float64) {
	for i := range c.sections {
		if c.identity[i] {
			continue
		}

		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears all section states.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// Capacity returns the number of allocated sections.
func (c *Chain) Capacity() int {
	return len(c.sections)
}

// ActiveSections returns the number of non-identity sections.
func (c *Chain) ActiveSections() int {
	n := 0
	for _, id := range c.identity {
		if !id {
			n++
		}
	}

	return n
}

// Coefficients returns the coefficients of the i-th section.
func (c *Chain) Coefficients(i int) Coefficients {
	return c.sections[i].Coefficients
}

// Section returns a pointer to the i-th section for inspection.
func (c *Chain) Section(i int) *Section {
	return &c.sections[i]
}

// State returns a snapshot of all section delay-line states.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}

	return states
}

// SetState restores previously saved section states.
// The slice length must match Capacity.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
