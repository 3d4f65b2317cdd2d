package spectrum

import "github.com/cwbudde/algo-vecmath"

// SplitComplex copies the real and imaginary parts of in into re and im.
// It converts min(len(re), len(im), len(in)) bins.
func SplitComplex(re, im []float64, in []complex128) {
	n := min(len(re), len(im), len(in))
	for i, c := range in[:n] {
		re[i] = real(c)
		im[i] = imag(c)
	}
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
// All three slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PowerFromParts computes |X[k]|^2 into dst.
func PowerFromParts(dst, re, im []float64) {
	vecmath.Power(dst, re, im)
}
