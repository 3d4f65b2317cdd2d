package pitch

import (
	"fmt"
	"math"

	"github.com/goyamamoto/effetune-sub001/dsp/core"
)

const (
	minShifterRatio = 0.25
	maxShifterRatio = 4.0
	minShifterCents = -50.0
	maxShifterCents = 50.0
	minWindowMs     = 20.0
	maxWindowMs     = 100.0
)

// Shifter is a mono, setter-driven wrapper around [Engine].
//
// Unlike Engine, which takes its parameters on every call, Shifter keeps them
// and validates each change. Output is delayed by Latency() samples whenever
// the pitch ratio differs from 1.
type Shifter struct {
	engine     *Engine
	sampleRate float64
	params     Parameters
}

// NewShifter creates a mono shifter at identity pitch.
func NewShifter(sampleRate float64, opts ...Option) (*Shifter, error) {
	if !isFinitePositive(sampleRate) {
		return nil, fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}

	engine, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}

	return &Shifter{
		engine:     engine,
		sampleRate: sampleRate,
		params:     DefaultParameters(),
	}, nil
}

// SampleRate returns the current sample rate in Hz.
func (s *Shifter) SampleRate() float64 { return s.sampleRate }

// Parameters returns the current parameter set.
func (s *Shifter) Parameters() Parameters { return s.params }

// PitchRatio returns the current pitch factor.
func (s *Shifter) PitchRatio() float64 { return s.params.PitchFactor() }

// PitchSemitones returns the total pitch offset in semitones, cents included.
func (s *Shifter) PitchSemitones() float64 { return s.params.Semitones + s.params.Cents/100 }

// Latency returns the current processing delay in samples.
func (s *Shifter) Latency() int { return s.engine.Latency() }

// SetSampleRate updates the sample rate. A change that alters the frame size
// resets the processing state on the next call.
func (s *Shifter) SetSampleRate(sampleRate float64) error {
	if !isFinitePositive(sampleRate) {
		return fmt.Errorf("pitch shifter sample rate must be positive and finite: %f", sampleRate)
	}

	s.sampleRate = sampleRate

	return nil
}

// SetPitchRatio sets the pitch factor directly. Cents are folded into the
// semitone value.
func (s *Shifter) SetPitchRatio(ratio float64) error {
	if !isFinitePositive(ratio) || ratio < minShifterRatio || ratio > maxShifterRatio {
		return fmt.Errorf("pitch shifter ratio must be in [%f, %f]: %f", minShifterRatio, maxShifterRatio, ratio)
	}

	s.params.Semitones = core.RatioToSemitones(ratio)
	s.params.Cents = 0

	return nil
}

// SetPitchSemitones sets the coarse offset, keeping the fine offset.
func (s *Shifter) SetPitchSemitones(semitones float64) error {
	if !core.IsFinite(semitones) {
		return fmt.Errorf("pitch shifter semitones must be finite: %f", semitones)
	}

	ratio := core.SemitonesToRatio(semitones + s.params.Cents/100)
	if ratio < minShifterRatio || ratio > maxShifterRatio {
		return fmt.Errorf("pitch shifter semitones out of range: %f", semitones)
	}

	s.params.Semitones = semitones

	return nil
}

// SetCents sets the fine offset in [-50, 50] cents.
func (s *Shifter) SetCents(cents float64) error {
	if math.IsNaN(cents) || cents < minShifterCents || cents > maxShifterCents {
		return fmt.Errorf("pitch shifter cents must be in [%g, %g]: %f", minShifterCents, maxShifterCents, cents)
	}

	s.params.Cents = cents

	return nil
}

// SetWindowMs sets the analysis window length in [20, 100] ms.
func (s *Shifter) SetWindowMs(ms float64) error {
	if math.IsNaN(ms) || ms < minWindowMs || ms > maxWindowMs {
		return fmt.Errorf("pitch shifter window must be in [%g, %g] ms: %f", minWindowMs, maxWindowMs, ms)
	}

	s.params.WindowMs = ms

	return nil
}

// SetOversampling sets the overlap factor in [2, 16].
func (s *Shifter) SetOversampling(factor int) error {
	if factor < MinOversampling || factor > MaxOversampling {
		return fmt.Errorf("pitch shifter oversampling must be in [%d, %d]: %d", MinOversampling, MaxOversampling, factor)
	}

	s.params.Oversampling = factor

	return nil
}

// SetBypass enables or disables pass-through.
func (s *Shifter) SetBypass(bypass bool) {
	s.params.Bypass = bypass
}

// Reset clears the streaming state.
func (s *Shifter) Reset() {
	s.engine.Reset()
}

// Process returns a pitch-shifted copy of input.
func (s *Shifter) Process(input []float64) []float64 {
	if len(input) == 0 {
		return nil
	}

	out := make([]float64, len(input))
	copy(out, input)
	s.ProcessInPlace(out)

	return out
}

// ProcessInPlace pitch-shifts buf in place. buf is left unmodified if the
// current settings cannot be realized at the current sample rate.
func (s *Shifter) ProcessInPlace(buf []float64) {
	_ = s.ProcessWithError(buf)
}

// ProcessWithError pitch-shifts buf in place and reports configuration errors.
func (s *Shifter) ProcessWithError(buf []float64) error {
	return s.engine.Process(buf, s.params, 1, len(buf), s.sampleRate)
}
