package pitch

import (
	"fmt"
	"math"

	"github.com/goyamamoto/effetune-sub001/dsp/window"
)

// remap moves analysis bins to floor(k·factor). Magnitudes landing in the
// same target bin add up; the frequency of the last source bin wins.
func (s *channelState) remap(k *frameKernel, factor float64) {
	half := k.cfg.FrameSize / 2

	clear(s.synthesisMagnitude)
	clear(s.synthesisFrequency)

	for bin := 0; bin <= half; bin++ {
		pos := float64(bin) * factor
		if pos > float64(half) {
			break
		}

		target := int(pos)
		s.synthesisMagnitude[target] += s.analysisMagnitude[bin]
		s.synthesisFrequency[target] = s.analysisFrequency[bin] * factor
	}
}

// resynthesize accumulates phase for every synthesis bin, builds the
// Hermitian spectrum, inverts it and overlap-adds the windowed frame.
func (s *channelState) resynthesize(k *frameKernel) error {
	n := k.cfg.FrameSize
	half := n / 2
	fpb := k.cfg.FreqPerBin
	expected := k.cfg.ExpectedPhaseAdvance

	for bin := 0; bin <= half; bin++ {
		dev := (s.synthesisFrequency[bin] - float64(bin)*fpb) / fpb
		inc := 2*math.Pi*dev/k.osr + float64(bin)*expected

		// Phase is kept in [-π, π]; only its value mod 2π reaches the output.
		s.sumPhase[bin] = wrapPhase(s.sumPhase[bin] + inc)

		mag := s.synthesisMagnitude[bin]
		sin, cos := math.Sincos(s.sumPhase[bin])
		s.re[bin] = mag * cos
		s.im[bin] = mag * sin
	}

	for bin := 1; bin < half; bin++ {
		s.re[n-bin] = s.re[bin]
		s.im[n-bin] = -s.im[bin]
	}

	err := s.transform.Inverse(s.re, s.im)
	if err != nil {
		return fmt.Errorf("pitch: inverse transform failed: %w", err)
	}

	err = window.ApplyCoefficientsInPlace(s.re, k.synthesis)
	if err != nil {
		return err
	}

	for i, v := range s.re {
		s.outputAccum[i] += v
	}

	return nil
}
