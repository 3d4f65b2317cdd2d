package core

import "math"

// Clamp limits value to [lo, hi]. Reversed bounds are swapped.
func Clamp(value, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}

	return math.Min(math.Max(value, lo), hi)
}

// IsFinite reports whether x is neither NaN nor ±Inf.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// DBToLinear converts a level in dB to an amplitude factor.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// SemitonesToRatio converts an equal-tempered interval to a frequency ratio.
func SemitonesToRatio(semitones float64) float64 {
	return math.Exp2(semitones / 12)
}

// RatioToSemitones is the inverse of SemitonesToRatio. Non-positive ratios
// yield NaN.
func RatioToSemitones(ratio float64) float64 {
	if !(ratio > 0) {
		return math.NaN()
	}

	return 12 * math.Log2(ratio)
}

// CentsBetween returns the interval from ref to f in cents.
func CentsBetween(f, ref float64) float64 {
	return 1200 * math.Log2(f/ref)
}
