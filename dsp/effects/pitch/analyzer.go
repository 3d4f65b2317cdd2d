package pitch

import (
	"fmt"
	"math"

	"github.com/goyamamoto/effetune-sub001/dsp/spectrum"
	"github.com/goyamamoto/effetune-sub001/dsp/window"
)

// analyze windows the current input frame, transforms it and converts bins
// [0, N/2] into magnitude and instantaneous frequency in Hz.
func (s *channelState) analyze(k *frameKernel) error {
	err := window.ApplyCoefficients(s.re, s.inFifo, k.analysis)
	if err != nil {
		return err
	}

	clear(s.im)

	err = s.transform.Forward(s.re, s.im)
	if err != nil {
		return fmt.Errorf("pitch: forward transform failed: %w", err)
	}

	half := k.cfg.FrameSize / 2
	spectrum.MagnitudeFromParts(s.analysisMagnitude[:half+1], s.re[:half+1], s.im[:half+1])

	expected := k.cfg.ExpectedPhaseAdvance
	fpb := k.cfg.FreqPerBin

	for bin := 0; bin <= half; bin++ {
		s.analysisMagnitude[bin] *= 2

		phase := math.Atan2(s.im[bin], s.re[bin])
		delta := phase - s.lastPhase[bin]
		s.lastPhase[bin] = phase

		delta = wrapPhase(delta - float64(bin)*expected)
		deviation := k.osr * delta / (2 * math.Pi)

		s.analysisFrequency[bin] = (float64(bin) + deviation) * fpb
	}

	return nil
}

// wrapPhase maps x into [-π, π] by subtracting the nearest multiple of 2π.
func wrapPhase(x float64) float64 {
	return x - 2*math.Pi*math.Round(x/(2*math.Pi))
}
