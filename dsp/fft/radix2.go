package fft

import (
	"fmt"
	"math"
)

// Radix2 is an iterative radix-2 decimation-in-time FFT.
//
// Bit-reversal indices and twiddle factors are computed once in NewRadix2;
// Forward and Inverse do not allocate. A Radix2 holds no mutable state and may
// be shared, but the arrays passed to it are modified in place.
type Radix2 struct {
	size int
	rev  []int
	cos  []float64
	sin  []float64
}

// NewRadix2 creates a radix-2 transform of the given power-of-two size.
func NewRadix2(size int) (*Radix2, error) {
	if size < 2 || !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	bits := Log2(size)
	r := &Radix2{
		size: size,
		rev:  make([]int, size),
		cos:  make([]float64, size/2),
		sin:  make([]float64, size/2),
	}

	for i := range size {
		r.rev[i] = reverseBits(i, bits)
	}

	for k := range size / 2 {
		angle := 2 * math.Pi * float64(k) / float64(size)
		r.cos[k] = math.Cos(angle)
		r.sin[k] = math.Sin(angle)
	}

	return r, nil
}

// Size returns the transform length.
func (r *Radix2) Size() int { return r.size }

// Forward transforms re/im in place.
func (r *Radix2) Forward(re, im []float64) error {
	err := checkLengths(r.size, re, im)
	if err != nil {
		return err
	}

	r.transform(re, im)

	return nil
}

// Inverse applies the normalized inverse transform in place using the
// conjugate trick: conj(FFT(conj(X))) / N.
func (r *Radix2) Inverse(re, im []float64) error {
	err := checkLengths(r.size, re, im)
	if err != nil {
		return err
	}

	for i := range im {
		im[i] = -im[i]
	}

	r.transform(re, im)

	scale := 1 / float64(r.size)
	for i := range re {
		re[i] *= scale
		im[i] *= -scale
	}

	return nil
}

func (r *Radix2) transform(re, im []float64) {
	n := r.size

	for i, j := range r.rev {
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for half := 1; half < n; half <<= 1 {
		span := half << 1
		stride := n / span

		for start := 0; start < n; start += span {
			for k := range half {
				wr := r.cos[k*stride]
				wi := -r.sin[k*stride]

				a := start + k
				b := a + half

				tr := re[b]*wr - im[b]*wi
				ti := re[b]*wi + im[b]*wr

				re[b] = re[a] - tr
				im[b] = im[a] - ti
				re[a] += tr
				im[a] += ti
			}
		}
	}
}

func reverseBits(v, bits int) int {
	out := 0
	for range bits {
		out = out<<1 | v&1
		v >>= 1
	}

	return out
}
