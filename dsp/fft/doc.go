// Package fft provides in-place complex transforms over split real/imaginary
// arrays of power-of-two length.
//
// Included transforms:
//   - Radix2: iterative decimation-in-time FFT with precomputed twiddles.
//   - Plan: adapter around an algo-fft plan.
//
// Both satisfy [Transform], so callers that own per-channel scratch state can
// pick a backend through a [Factory] without changing their hot loop.
package fft
