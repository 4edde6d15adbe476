package core

import "math"

// MapLinear maps value from [srcMin, srcMax] onto [dstMin, dstMax].
// The mapping is not clamped. A degenerate source range returns dstMin.
func MapLinear(value, srcMin, srcMax, dstMin, dstMax float64) float64 {
	span := srcMax - srcMin
	if span == 0 {
		return dstMin
	}

	return dstMin + (value-srcMin)*(dstMax-dstMin)/span
}

// MapToLog10 maps a proportion in [0, 1] onto [min, max] on a logarithmic
// axis. Both bounds must be > 0. Proportions 0 and 1 return min and max
// exactly.
func MapToLog10(proportion, min, max float64) float64 {
	if proportion == 1 {
		return max
	}

	return min * math.Pow(max/min, proportion)
}

// MapFromLog10 is the inverse of MapToLog10: it returns the proportion of
// value between min and max on a logarithmic axis.
func MapFromLog10(value, min, max float64) float64 {
	if value <= 0 || min <= 0 || max <= min {
		return 0
	}

	return (math.Log(value) - math.Log(min)) / (math.Log(max) - math.Log(min))
}
