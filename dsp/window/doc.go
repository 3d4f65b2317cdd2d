// Package window generates the cosine-family analysis windows used for STFT
// framing and applies them to sample blocks.
//
// Generated coefficients are symmetric by default; use [WithPeriodic] for
// FFT framing, where the window repeats with period N.
package window
