package commands

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goyamamoto/effetune-sub001/dsp/effectchain"
	"github.com/goyamamoto/effetune-sub001/dsp/effects/pitch"
	"github.com/goyamamoto/effetune-sub001/dsp/fft"
	"github.com/goyamamoto/effetune-sub001/internal/config"
)

// chainFlags are the flags shared by commands that build an effect chain.
type chainFlags struct {
	preset       string
	semitones    float64
	cents        float64
	windowMs     float64
	oversampling int
	window       string
	blockSize    int
	backend      string
}

func (f *chainFlags) register(cmd *cobra.Command) {
	defaults := pitch.DefaultParameters()

	cmd.Flags().StringVarP(&f.preset, "preset", "p", "", "YAML chain preset (overrides the pitch flags)")
	cmd.Flags().Float64VarP(&f.semitones, "semitones", "s", 0, "pitch shift in semitones [-12, 12]")
	cmd.Flags().Float64Var(&f.cents, "cents", 0, "fine tuning in cents [-50, 50]")
	cmd.Flags().Float64Var(&f.windowMs, "window-ms", defaults.WindowMs, "analysis window length in ms [20, 100]")
	cmd.Flags().IntVar(&f.oversampling, "oversampling", defaults.Oversampling, "frames per window [2, 16]")
	cmd.Flags().StringVar(&f.window, "window", "hann", "window function (rectangular, hann, hamming, blackman)")
	cmd.Flags().IntVarP(&f.blockSize, "block-size", "b", config.DefaultBlockSize, "host block size in frames")
	cmd.Flags().StringVar(&f.backend, "fft", "radix2", "FFT backend (radix2, plan)")
}

// loadPreset returns the preset file when given, otherwise a single pitch
// node built from the flags.
func (f *chainFlags) loadPreset() (*config.Preset, error) {
	if f.preset != "" {
		return config.Load(f.preset)
	}

	p := config.PitchPreset(f.semitones, f.cents, f.windowMs, f.oversampling, f.blockSize)
	p.Chain[0].Options = map[string]string{"window": f.window}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func transformFactory(name string) (fft.Factory, error) {
	switch strings.ToLower(name) {
	case "radix2", "":
		return fft.Radix2Factory, nil
	case "plan":
		return fft.PlanFactory, nil
	default:
		return nil, fmt.Errorf("unknown FFT backend %q (want radix2 or plan)", name)
	}
}

// buildChain creates a chain for the given stream settings.
func (f *chainFlags) buildChain(sampleRate float64, channels int) (*effectchain.Chain, *config.Preset, error) {
	preset, err := f.loadPreset()
	if err != nil {
		return nil, nil, err
	}

	factory, err := transformFactory(f.backend)
	if err != nil {
		return nil, nil, err
	}

	ctx := effectchain.Context{SampleRate: sampleRate, Channels: channels}
	chain := effectchain.New(ctx, effectchain.DefaultRegistry(effectchain.WithTransform(factory)))

	if err := chain.Load(preset.ChainParams()); err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"nodes":      chain.Len(),
		"sampleRate": sampleRate,
		"channels":   channels,
		"blockSize":  preset.BlockSize,
		"latency":    chain.Latency(),
		"fft":        f.backend,
	}).Debug("Effect chain ready")

	return chain, preset, nil
}
