package pitch

import (
	"errors"
	"fmt"

	"github.com/goyamamoto/effetune-sub001/dsp/fft"
	"github.com/goyamamoto/effetune-sub001/dsp/window"
)

// frameKernel is the read-only per-geometry data shared by all channels.
type frameKernel struct {
	cfg EngineConfig
	osr float64

	analysis  []float64 // window
	synthesis []float64 // window scaled by the overlap-add gain
}

// Option configures an Engine.
type Option func(*Engine)

// WithTransform selects the FFT backend. The default is [fft.Radix2Factory].
func WithTransform(factory fft.Factory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithWindow selects the analysis/synthesis window. The default is Hann.
// The overlap-add gain is derived from the window, so identity processing
// keeps unity gain for any window whose squared shifts sum to a constant.
func WithWindow(t window.Type) Option {
	return func(e *Engine) {
		e.windowType = t
	}
}

// Engine is a multichannel streaming phase-vocoder pitch shifter.
//
// The host owns the Engine and calls Process once per audio block with the
// current parameters. State is allocated lazily on the first non-bypassed
// call and rebuilt whenever the frame size, hop or channel count changes.
type Engine struct {
	factory    fft.Factory
	windowType window.Type

	configured bool
	kernel     frameKernel
	channels   []*channelState

	// processIdentity disables the unity-factor bypass.
	processIdentity bool
}

// NewEngine creates an unconfigured engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		factory:    fft.Radix2Factory,
		windowType: window.TypeHann,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if e.factory == nil {
		return nil, errors.New("pitch: transform factory must not be nil")
	}

	switch e.windowType {
	case window.TypeRectangular, window.TypeHann, window.TypeHamming, window.TypeBlackman:
	default:
		return nil, fmt.Errorf("pitch: unsupported window type: %v", e.windowType)
	}

	return e, nil
}

// Process pitch-shifts buf in place.
//
// buf is channel-major: channel c occupies buf[c*blockSize : (c+1)*blockSize].
// When p is bypassed (Bypass set, unity factor, or non-finite factor) buf and
// the engine state are left untouched. Otherwise the output is delayed by
// FrameSize samples relative to the input, and the first FrameSize samples
// after a reset are silent.
func (e *Engine) Process(buf []float64, p Parameters, channels, blockSize int, sampleRate float64) error {
	if channels < 1 || blockSize < 0 || len(buf) != channels*blockSize {
		return fmt.Errorf("%w: len=%d channels=%d blockSize=%d", ErrBufferLength, len(buf), channels, blockSize)
	}

	if p.Bypass {
		return nil
	}

	factor := p.PitchFactor()
	if !isFinitePositive(factor) || (factor == 1 && !e.processIdentity) {
		return nil
	}

	err := e.configure(sampleRate, channels, p.WindowMs, p.Oversampling)
	if err != nil {
		return err
	}

	for c, st := range e.channels {
		err := st.process(buf[c*blockSize:(c+1)*blockSize], &e.kernel, factor)
		if err != nil {
			return err
		}
	}

	return nil
}

// Config returns the current frame geometry and whether the engine has been
// configured.
func (e *Engine) Config() (EngineConfig, bool) {
	return e.kernel.cfg, e.configured
}

// Latency returns the processing delay in samples, or 0 before the first
// non-bypassed call.
func (e *Engine) Latency() int {
	if !e.configured {
		return 0
	}

	return e.kernel.cfg.FrameSize
}

// Reset clears all channel state without reallocating.
func (e *Engine) Reset() {
	for _, st := range e.channels {
		st.reset(e.kernel.cfg)
	}
}

func (e *Engine) configure(sampleRate float64, channels int, windowMs float64, oversampling int) error {
	if e.configured && e.kernel.cfg.sameInputs(sampleRate, channels, windowMs, oversampling) {
		return nil
	}

	cfg, err := NewEngineConfig(sampleRate, channels, windowMs, oversampling)
	if err != nil {
		return err
	}

	if e.configured && e.kernel.cfg.sameGeometry(cfg) {
		e.kernel.cfg = cfg
		return nil
	}

	kernel, err := e.newKernel(cfg)
	if err != nil {
		return err
	}

	states := make([]*channelState, channels)
	for c := range states {
		states[c], err = newChannelState(cfg, e.factory)
		if err != nil {
			return err
		}
	}

	e.kernel = kernel
	e.channels = states
	e.configured = true

	return nil
}

func (e *Engine) newKernel(cfg EngineConfig) (frameKernel, error) {
	analysis := window.Generate(e.windowType, cfg.FrameSize, window.WithPeriodic())

	overlap, err := window.OverlapSum(analysis, cfg.Hop)
	if err != nil {
		return frameKernel{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// Analysis magnitudes are doubled, so the resynthesized frame is twice
	// the windowed input.
	gain := 1 / (2 * overlap)

	synthesis := make([]float64, cfg.FrameSize)
	for i, w := range analysis {
		synthesis[i] = w * gain
	}

	return frameKernel{
		cfg:       cfg,
		osr:       cfg.OverlapRatio(),
		analysis:  analysis,
		synthesis: synthesis,
	}, nil
}
