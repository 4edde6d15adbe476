package biquad

import (
	"math"
	"testing"
)

func twoSectionCoeffs() []Coefficients {
	return []Coefficients{
		lowpassish(),
		{B0: 0.1, B1: 0.2, B2: 0.1, A1: -0.5, A2: 0.1},
	}
}

func TestNewChain_AllIdentity(t *testing.T) {
	c := NewChain(4)
	if c.Capacity() != 4 {
		t.Fatalf("Capacity = %d, want 4", c.Capacity())
	}

	if c.ActiveSections() != 0 {
		t.Fatalf("ActiveSections = %d, want 0", c.ActiveSections())
	}

	for i := range c.Capacity() {
		if !c.Coefficients(i).IsIdentity() {
			t.Fatalf("section %d not identity", i)
		}
	}
}

func TestChain_LoadFillsIdentity(t *testing.T) {
	c := NewChain(4)
	c.Load(twoSectionCoeffs())

	if c.ActiveSections() != 2 {
		t.Fatalf("ActiveSections = %d, want 2", c.ActiveSections())
	}

	for i := 2; i < 4; i++ {
		if !c.Coefficients(i).IsIdentity() {
			t.Fatalf("section %d not identity after short load", i)
		}
	}

	c.Load(nil)
	if c.ActiveSections() != 0 {
		t.Fatalf("ActiveSections after empty load = %d, want 0", c.ActiveSections())
	}
}

func TestChain_LoadIgnoresOverflow(t *testing.T) {
	c := NewChain(1)
	c.Load(twoSectionCoeffs())

	if c.ActiveSections() != 1 || c.Coefficients(0) != lowpassish() {
		t.Fatalf("unexpected chain after overflow load: %+v", c.Coefficients(0))
	}
}

func TestChain_ProcessMatchesManualCascade(t *testing.T) {
	coeffs := twoSectionCoeffs()
	s1 := NewSection(coeffs[0])
	s2 := NewSection(coeffs[1])

	chain := NewChain(4)
	chain.Load(coeffs)

	block := []float64{1, 0.5, -0.3, 0.7, 0, -1, 0.2, 0.8, 0.1}
	ref := make([]float64, len(block))
	for i, x := range block {
		ref[i] = s2.ProcessSample(s1.ProcessSample(x))
	}

	chain.ProcessBlock(block)
	for i := range block {
		if !almostEqual(block[i], ref[i], eps) {
			t.Fatalf("sample %d: chain=%.15f, ref=%.15f", i, block[i], ref[i])
		}
	}
}

func TestChain_LoadPreservesState(t *testing.T) {
	chain := NewChain(2)
	chain.Load(twoSectionCoeffs())

	buf := []float64{1, 0.25, -0.5}
	chain.ProcessBlock(buf)
	before := chain.State()

	chain.Load(twoSectionCoeffs())

	after := chain.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("section %d state changed on reload: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestChain_ResetClearsState(t *testing.T) {
	chain := NewChain(2)
	chain.Load(twoSectionCoeffs())
	chain.ProcessSample(1)
	chain.Reset()

	for i, st := range chain.State() {
		if st != [2]float64{} {
			t.Fatalf("section %d state not cleared: %v", i, st)
		}
	}
}

func TestChain_ImpulseResponseDoesNotMutate(t *testing.T) {
	chain := NewChain(2)
	chain.Load(twoSectionCoeffs())
	chain.ProcessSample(0.3)
	before := chain.State()

	ir := chain.ImpulseResponse(16)
	if len(ir) != 16 {
		t.Fatalf("len(ir) = %d, want 16", len(ir))
	}

	after := chain.State()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("state changed by ImpulseResponse: %v -> %v", before[i], after[i])
		}
	}

	if math.Abs(ir[0]-0.025) > eps {
		t.Fatalf("ir[0] = %v, want 0.025", ir[0])
	}
}

func TestChain_ProcessBlockZeroAlloc(t *testing.T) {
	chain := NewChain(4)
	chain.Load(twoSectionCoeffs())
	buf := make([]float64, 256)
	coeffs := [4]Coefficients{lowpassish(), lowpassish()}

	allocs := testing.AllocsPerRun(100, func() {
		chain.Load(coeffs[:2])
		chain.ProcessBlock(buf)
	})
	if allocs != 0 {
		t.Fatalf("allocs = %v, want 0", allocs)
	}
}

func BenchmarkChain_ProcessBlock(b *testing.B) {
	chain := NewChain(4)
	chain.Load([]Coefficients{lowpassish(), lowpassish(), lowpassish(), lowpassish()})
	buf := make([]float64, 512)
	for i := range buf {
		buf[i] = math.Sin(float64(i) * 0.01)
	}

	b.SetBytes(int64(len(buf) * 8))
	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		chain.ProcessBlock(buf)
	}
}
