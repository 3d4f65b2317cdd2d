package pitch

import "github.com/goyamamoto/effetune-sub001/dsp/core"

const (
	defaultWindowMs     = 40.0
	defaultOversampling = 8
)

// Parameters are read on every Process call. They are expected to be
// validated by the caller; the engine only rejects values it cannot turn into
// a frame geometry.
type Parameters struct {
	// Semitones is the coarse pitch offset, typically in [-12, 12].
	Semitones float64
	// Cents is the fine pitch offset, typically in [-50, 50].
	Cents float64
	// WindowMs is the requested analysis window length in milliseconds.
	WindowMs float64
	// Oversampling is the number of overlapping frames per window, in [2, 16].
	Oversampling int
	// Bypass passes audio through unmodified.
	Bypass bool
}

// DefaultParameters returns identity pitch with a 40 ms window and 8x overlap.
func DefaultParameters() Parameters {
	return Parameters{
		WindowMs:     defaultWindowMs,
		Oversampling: defaultOversampling,
	}
}

// PitchFactor returns 2^(Semitones/12 + Cents/1200).
func (p Parameters) PitchFactor() float64 {
	return core.SemitonesToRatio(p.Semitones + p.Cents/100)
}

func isFinitePositive(v float64) bool {
	return v > 0 && core.IsFinite(v)
}
