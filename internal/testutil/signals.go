// Package testutil provides deterministic audio fixtures and tolerance
// assertions shared by the module's tests.
package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine returns amplitude·sin(2π·freqHz·n/sampleRate) starting at
// phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	w := 2 * math.Pi * freqHz / sampleRate

	for n := range out {
		out[n] = amplitude * math.Sin(w*float64(n))
	}

	return out
}

// DeterministicNoise returns uniform white noise in [-amplitude, amplitude)
// that is identical for identical seeds.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	rng := rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
	out := make([]float64, length)

	for n := range out {
		out[n] = amplitude * (2*rng.Float64() - 1)
	}

	return out
}

// Impulse returns a unit impulse at pos. Out-of-range positions give silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// DC returns a constant signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for n := range out {
		out[n] = value
	}

	return out
}

// Ones returns n samples of 1.
func Ones(n int) []float64 { return DC(1, n) }

// Delayed returns a copy of x shifted right by delay samples, zero-filled at
// the start and truncated to len(x).
func Delayed(x []float64, delay int) []float64 {
	out := make([]float64, len(x))
	if delay < len(x) {
		copy(out[delay:], x[:len(x)-delay])
	}

	return out
}

// Planar concatenates equal-length channels into one channel-major buffer.
func Planar(channels ...[]float64) []float64 {
	if len(channels) == 0 {
		return nil
	}

	n := len(channels[0])
	out := make([]float64, 0, n*len(channels))

	for _, ch := range channels {
		out = append(out, ch[:n]...)
	}

	return out
}
