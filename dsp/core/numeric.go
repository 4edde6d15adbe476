package core

import "math"

const defaultEpsilon = 1e-12

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts dB to linear amplitude (20*log10 convention).
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// GainToDB converts linear amplitude to dB, clamping the result to floorDB.
// Zero, negative and NaN gains map to floorDB instead of -Inf.
func GainToDB(gain, floorDB float64) float64 {
	if !(gain > 0) {
		return floorDB
	}

	db := 20 * math.Log10(gain)
	if db < floorDB {
		return floorDB
	}

	return db
}

// PowerToDB converts a squared magnitude to dB with the same floor rule as
// GainToDB.
func PowerToDB(power, floorDB float64) float64 {
	if !(power > 0) {
		return floorDB
	}

	db := 10 * math.Log10(power)
	if db < floorDB {
		return floorDB
	}

	return db
}
