package effectchain

import (
	"fmt"
	"math"

	"github.com/goyamamoto/effetune-sub001/dsp/core"
	"github.com/goyamamoto/effetune-sub001/dsp/effects/pitch"
	"github.com/goyamamoto/effetune-sub001/dsp/fft"
	"github.com/goyamamoto/effetune-sub001/dsp/window"
)

// Pitch node parameter ranges.
const (
	pitchMinSemitones   = -12
	pitchMaxSemitones   = 12
	pitchMinCents       = -50
	pitchMaxCents       = 50
	pitchMinWindowMs    = 20
	pitchMaxWindowMs    = 100
	pitchDefaultWindow  = 40
	pitchDefaultOverlap = 8
)

// pitchRuntime clamps node parameters into the engine's supported ranges and
// drives one multichannel pitch engine.
type pitchRuntime struct {
	transform fft.Factory
	window    window.Type
	engine    *pitch.Engine
	ctx       Context
	params    pitch.Parameters
}

func (r *pitchRuntime) Configure(ctx Context, p Params) error {
	if ctx.Channels < 1 {
		return fmt.Errorf("pitch runtime channel count must be >= 1: %d", ctx.Channels)
	}

	wt, err := window.ParseType(p.GetStr("window", "hann"))
	if err != nil {
		return fmt.Errorf("pitch runtime: %w", err)
	}

	if r.engine == nil || wt != r.window {
		engine, err := pitch.NewEngine(pitch.WithTransform(r.transform), pitch.WithWindow(wt))
		if err != nil {
			return fmt.Errorf("pitch runtime: %w", err)
		}

		r.engine = engine
		r.window = wt
	}

	r.ctx = ctx
	r.params = pitch.Parameters{
		Semitones:    p.NumIn("semitones", 0, pitchMinSemitones, pitchMaxSemitones),
		Cents:        p.NumIn("cents", 0, pitchMinCents, pitchMaxCents),
		WindowMs:     p.NumIn("windowMs", pitchDefaultWindow, pitchMinWindowMs, pitchMaxWindowMs),
		Oversampling: int(math.Round(p.NumIn("oversampling", pitchDefaultOverlap, pitch.MinOversampling, pitch.MaxOversampling))),
		Bypass:       p.Bypassed,
	}

	return nil
}

func (r *pitchRuntime) Process(block []float64) error {
	frames, ok := r.ctx.frames(block)
	if !ok {
		return fmt.Errorf("%w: %d samples for %d channels", pitch.ErrBufferLength, len(block), r.ctx.Channels)
	}

	return r.engine.Process(block, r.params, r.ctx.Channels, frames, r.ctx.SampleRate)
}

// Latency reports the delay the current settings will add, before the engine
// has processed anything.
func (r *pitchRuntime) Latency() int {
	if r.params.Bypass || r.params.PitchFactor() == 1 {
		return 0
	}

	return pitch.FrameSizeFor(r.params.WindowMs, r.ctx.SampleRate)
}

func (r *pitchRuntime) Reset() {
	r.engine.Reset()
}

// gainRuntime applies a static output gain in dB.
type gainRuntime struct {
	gain float64
}

func (g *gainRuntime) Configure(_ Context, p Params) error {
	g.gain = core.DBToLinear(p.NumIn("db", 0, -60, 24))
	if p.Bypassed {
		g.gain = 1
	}

	return nil
}

func (g *gainRuntime) Process(block []float64) error {
	if g.gain == 1 {
		return nil
	}

	for i := range block {
		block[i] *= g.gain
	}

	return nil
}
