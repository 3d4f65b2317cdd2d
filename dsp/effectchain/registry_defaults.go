package effectchain

import (
	"github.com/goyamamoto/effetune-sub001/dsp/effects/pitch"
	"github.com/goyamamoto/effetune-sub001/dsp/fft"
	"github.com/goyamamoto/effetune-sub001/dsp/window"
)

// Effect type names registered by DefaultRegistry.
const (
	TypePitch = "pitch"
	TypeGain  = "gain"
)

type registryConfig struct {
	transform fft.Factory
}

// RegistryOption configures the default registry.
type RegistryOption func(*registryConfig)

// WithTransform selects the FFT backend used by spectral runtimes.
func WithTransform(f fft.Factory) RegistryOption {
	return func(c *registryConfig) { c.transform = f }
}

// DefaultRegistry returns a Registry pre-populated with all built-in effect runtimes.
func DefaultRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{transform: fft.Radix2Factory}
	for _, opt := range opts {
		opt(cfg)
	}

	r := NewRegistry()

	r.MustRegister(TypePitch, func(_ Context) (Runtime, error) {
		engine, err := pitch.NewEngine(pitch.WithTransform(cfg.transform))
		if err != nil {
			return nil, err
		}

		return &pitchRuntime{transform: cfg.transform, window: window.TypeHann, engine: engine}, nil
	})
	r.MustRegister(TypeGain, func(_ Context) (Runtime, error) {
		return &gainRuntime{gain: 1}, nil
	})

	return r
}
