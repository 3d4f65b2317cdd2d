package fft

import "errors"

var (
	// ErrInvalidSize is returned when a transform is requested for a size that
	// is not a power of two or is smaller than 2.
	ErrInvalidSize = errors.New("fft: size must be a power of two >= 2")

	// ErrLengthMismatch is returned when the arrays passed to a transform do not
	// have the transform's size.
	ErrLengthMismatch = errors.New("fft: array length does not match transform size")
)

// Transform is an in-place complex DFT of fixed size.
//
// Forward computes X[k] = sum x[n] e^{-i2πkn/N}. Inverse computes the
// normalized inverse, so Inverse(Forward(x)) == x up to rounding.
type Transform interface {
	Size() int
	Forward(re, im []float64) error
	Inverse(re, im []float64) error
}

// Factory creates a Transform for the given size.
type Factory func(size int) (Transform, error)

// Radix2Factory builds [Radix2] transforms.
func Radix2Factory(size int) (Transform, error) {
	r, err := NewRadix2(size)
	if err != nil {
		return nil, err
	}

	return r, nil
}

// PlanFactory builds [Plan] transforms backed by algo-fft.
func PlanFactory(size int) (Transform, error) {
	p, err := NewPlan(size)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n. Values <= 1 yield 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

// Log2 returns log2(n) for a power of two n.
func Log2(n int) int {
	bits := 0
	for n > 1 {
		n >>= 1
		bits++
	}

	return bits
}

func checkLengths(size int, re, im []float64) error {
	if len(re) != size || len(im) != size {
		return ErrLengthMismatch
	}

	return nil
}
