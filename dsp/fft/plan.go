package fft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Plan adapts an algo-fft complex128 plan to the split-array [Transform]
// interface. The interleave buffer is allocated once, so steady-state calls do
// not allocate. A Plan is not safe for concurrent use.
type Plan struct {
	size int
	plan *algofft.Plan[complex128]
	buf  []complex128
}

// NewPlan creates an algo-fft backed transform of the given power-of-two size.
func NewPlan(size int) (*Plan, error) {
	if size < 2 || !IsPowerOfTwo(size) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("fft: failed to create plan: %w", err)
	}

	return &Plan{
		size: size,
		plan: plan,
		buf:  make([]complex128, size),
	}, nil
}

// Size returns the transform length.
func (p *Plan) Size() int { return p.size }

// Forward transforms re/im in place.
func (p *Plan) Forward(re, im []float64) error {
	err := checkLengths(p.size, re, im)
	if err != nil {
		return err
	}

	p.pack(re, im)

	err = p.plan.Forward(p.buf, p.buf)
	if err != nil {
		return fmt.Errorf("fft: forward transform failed: %w", err)
	}

	p.unpack(re, im)

	return nil
}

// Inverse applies the normalized inverse transform in place.
func (p *Plan) Inverse(re, im []float64) error {
	err := checkLengths(p.size, re, im)
	if err != nil {
		return err
	}

	p.pack(re, im)

	err = p.plan.Inverse(p.buf, p.buf)
	if err != nil {
		return fmt.Errorf("fft: inverse transform failed: %w", err)
	}

	p.unpack(re, im)

	return nil
}

func (p *Plan) pack(re, im []float64) {
	for i := range p.buf {
		p.buf[i] = complex(re[i], im[i])
	}
}

func (p *Plan) unpack(re, im []float64) {
	for i, v := range p.buf {
		re[i] = real(v)
		im[i] = imag(v)
	}
}
