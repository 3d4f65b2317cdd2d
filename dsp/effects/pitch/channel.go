package pitch

import (
	"fmt"

	"github.com/goyamamoto/effetune-sub001/dsp/core"
	"github.com/goyamamoto/effetune-sub001/dsp/fft"
)

// channelState is the complete streaming state of one channel. It is
// allocated once per frame geometry and never shared between channels.
type channelState struct {
	transform fft.Transform

	inFifo      []float64 // N
	outFifo     []float64 // N, only [0, Hop) is read
	outputAccum []float64 // 2N

	lastPhase []float64 // N/2+1
	sumPhase  []float64 // N/2+1

	analysisMagnitude  []float64 // N
	analysisFrequency  []float64 // N
	synthesisMagnitude []float64 // N
	synthesisFrequency []float64 // N

	re []float64 // N
	im []float64 // N

	// cursor runs over [N-Hop, N).
	cursor int

	// primed counts outputs since reset, saturating at N. Outputs are muted
	// until it reaches N.
	primed int
}

func newChannelState(cfg EngineConfig, factory fft.Factory) (*channelState, error) {
	n := cfg.FrameSize
	bins := n/2 + 1

	transform, err := factory(n)
	if err != nil {
		return nil, fmt.Errorf("pitch: failed to create transform of size %d: %w", n, err)
	}

	if transform.Size() != n {
		return nil, fmt.Errorf("pitch: transform size %d, want %d", transform.Size(), n)
	}

	s := &channelState{
		transform:          transform,
		inFifo:             make([]float64, n),
		outFifo:            make([]float64, n),
		outputAccum:        make([]float64, 2*n),
		lastPhase:          make([]float64, bins),
		sumPhase:           make([]float64, bins),
		analysisMagnitude:  make([]float64, n),
		analysisFrequency:  make([]float64, n),
		synthesisMagnitude: make([]float64, n),
		synthesisFrequency: make([]float64, n),
		re:                 make([]float64, n),
		im:                 make([]float64, n),
	}
	s.reset(cfg)

	return s, nil
}

// reset zeroes every buffer and rewinds the cursor without reallocating.
func (s *channelState) reset(cfg EngineConfig) {
	core.Zero(s.inFifo)
	core.Zero(s.outFifo)
	core.Zero(s.outputAccum)
	core.Zero(s.lastPhase)
	core.Zero(s.sumPhase)
	core.Zero(s.analysisMagnitude)
	core.Zero(s.analysisFrequency)
	core.Zero(s.synthesisMagnitude)
	core.Zero(s.synthesisFrequency)
	core.Zero(s.re)
	core.Zero(s.im)

	s.cursor = cfg.FrameSize - cfg.Hop
	s.primed = 0
}

// process pushes block through the frame buffer in place, one sample in and
// one sample out, running a full analysis/resynthesis pass every Hop samples.
func (s *channelState) process(block []float64, k *frameKernel, factor float64) error {
	n := k.cfg.FrameSize
	latency := n - k.cfg.Hop

	for i, x := range block {
		s.inFifo[s.cursor] = x
		y := s.outFifo[s.cursor-latency]
		s.outFifo[s.cursor-latency] = 0

		// Frames analyzed before the input fills a whole window would
		// smear zero padding across the output.
		if s.primed < n {
			s.primed++
			y = 0
		}

		block[i] = y

		s.cursor++
		if s.cursor < n {
			continue
		}

		s.cursor = latency

		err := s.processFrame(k, factor)
		if err != nil {
			return err
		}
	}

	return nil
}

func (s *channelState) processFrame(k *frameKernel, factor float64) error {
	err := s.analyze(k)
	if err != nil {
		return err
	}

	s.remap(k, factor)

	err = s.resynthesize(k)
	if err != nil {
		return err
	}

	hop := k.cfg.Hop
	copy(s.outFifo[:hop], s.outputAccum[:hop])
	core.ShiftLeft(s.outputAccum, hop)
	core.ShiftLeft(s.inFifo, hop)

	return nil
}
