package pitch

import (
	"errors"
	"fmt"
	"math"

	"github.com/goyamamoto/effetune-sub001/dsp/fft"
)

const (
	// MinOversampling and MaxOversampling bound the overlap factor.
	MinOversampling = 2
	MaxOversampling = 16

	// MinFrameSize and MaxFrameSize bound the derived FFT frame size.
	MinFrameSize = 16
	MaxFrameSize = 1 << 20
)

var (
	// ErrInvalidConfig is returned when sample rate, window or oversampling
	// cannot be turned into a valid frame geometry.
	ErrInvalidConfig = errors.New("pitch: invalid engine configuration")

	// ErrBufferLength is returned when the buffer passed to Process does not
	// hold exactly channels*blockSize samples.
	ErrBufferLength = errors.New("pitch: buffer length does not match channels*blockSize")
)

// EngineConfig is the frame geometry derived from stream settings.
type EngineConfig struct {
	SampleRate   float64
	Channels     int
	WindowMs     float64
	Oversampling int

	// FrameSize is the smallest power of two >= WindowMs*SampleRate/1000.
	FrameSize int
	// Hop is FrameSize/Oversampling.
	Hop int
	// FreqPerBin is SampleRate/FrameSize.
	FreqPerBin float64
	// ExpectedPhaseAdvance is the phase a bin-centered sinusoid advances per
	// hop, per bin index: 2π·Hop/FrameSize.
	ExpectedPhaseAdvance float64
}

// FrameSizeFor returns the smallest power of two >= windowMs*sampleRate/1000.
// It returns 0 when the product is not a positive finite size <= MaxFrameSize.
func FrameSizeFor(windowMs, sampleRate float64) int {
	samples := math.Ceil(windowMs * sampleRate / 1000)
	if !(samples >= 1) || samples > MaxFrameSize {
		return 0
	}

	return fft.NextPowerOfTwo(int(samples))
}

// NewEngineConfig validates stream settings and derives the frame geometry.
func NewEngineConfig(sampleRate float64, channels int, windowMs float64, oversampling int) (EngineConfig, error) {
	if !isFinitePositive(sampleRate) {
		return EngineConfig{}, fmt.Errorf("%w: sample rate must be positive and finite: %f", ErrInvalidConfig, sampleRate)
	}

	if channels < 1 {
		return EngineConfig{}, fmt.Errorf("%w: channel count must be >= 1: %d", ErrInvalidConfig, channels)
	}

	if !isFinitePositive(windowMs) {
		return EngineConfig{}, fmt.Errorf("%w: window must be positive and finite: %f ms", ErrInvalidConfig, windowMs)
	}

	if oversampling < MinOversampling || oversampling > MaxOversampling {
		return EngineConfig{}, fmt.Errorf("%w: oversampling must be in [%d, %d]: %d",
			ErrInvalidConfig, MinOversampling, MaxOversampling, oversampling)
	}

	n := FrameSizeFor(windowMs, sampleRate)
	if n < MinFrameSize || n > MaxFrameSize {
		return EngineConfig{}, fmt.Errorf("%w: frame size for %.3f ms at %.0f Hz must be in [%d, %d]",
			ErrInvalidConfig, windowMs, sampleRate, MinFrameSize, MaxFrameSize)
	}

	hop := n / oversampling

	return EngineConfig{
		SampleRate:           sampleRate,
		Channels:             channels,
		WindowMs:             windowMs,
		Oversampling:         oversampling,
		FrameSize:            n,
		Hop:                  hop,
		FreqPerBin:           sampleRate / float64(n),
		ExpectedPhaseAdvance: 2 * math.Pi * float64(hop) / float64(n),
	}, nil
}

// OverlapRatio returns FrameSize/Hop. It equals Oversampling whenever the
// oversampling factor divides the frame size.
func (c EngineConfig) OverlapRatio() float64 {
	return float64(c.FrameSize) / float64(c.Hop)
}

// OverlapFraction returns the share of each frame shared with the next one,
// 1 - Hop/FrameSize.
func (c EngineConfig) OverlapFraction() float64 {
	return 1 - float64(c.Hop)/float64(c.FrameSize)
}

// LatencySeconds returns the processing delay in seconds.
func (c EngineConfig) LatencySeconds() float64 {
	return float64(c.FrameSize) / c.SampleRate
}

// sameGeometry reports whether switching from c to next can keep channel
// state: ring layout depends on frame size and hop, and state is per channel.
func (c EngineConfig) sameGeometry(next EngineConfig) bool {
	return c.FrameSize == next.FrameSize && c.Hop == next.Hop && c.Channels == next.Channels
}

func (c EngineConfig) sameInputs(sampleRate float64, channels int, windowMs float64, oversampling int) bool {
	return c.SampleRate == sampleRate && c.Channels == channels &&
		c.WindowMs == windowMs && c.Oversampling == oversampling
}
