// Package config loads effect-chain presets for the pitchshift CLI.
//
// A preset is a YAML file:
//
//	blockSize: 512
//	compensateLatency: true
//	chain:
//	  - id: shift
//	    type: pitch
//	    params:
//	      semitones: 7
//	      windowMs: 40
//	    options:
//	      window: hann
//	  - type: gain
//	    params:
//	      db: -3
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/goyamamoto/effetune-sub001/dsp/effectchain"
)

// Block size limits, in frames.
const (
	DefaultBlockSize = 512
	MinBlockSize     = 16
	MaxBlockSize     = 1 << 16
)

// Node is one effect in a preset chain.
type Node struct {
	ID       string             `yaml:"id,omitempty"`
	Type     string             `yaml:"type"`
	Bypassed bool               `yaml:"bypassed,omitempty"`
	Params   map[string]float64 `yaml:"params,omitempty"`
	Options  map[string]string  `yaml:"options,omitempty"`
}

// Preset describes the processing chain and host block size.
type Preset struct {
	BlockSize         int    `yaml:"blockSize,omitempty"`
	CompensateLatency bool   `yaml:"compensateLatency,omitempty"`
	Chain             []Node `yaml:"chain"`
}

// Parse decodes and validates a preset. A zero block size becomes
// DefaultBlockSize.
func Parse(data []byte) (*Preset, error) {
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse preset: %w", err)
	}

	if p.BlockSize == 0 {
		p.BlockSize = DefaultBlockSize
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Load reads the preset at path.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("preset %q not found", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path as YAML, creating parent directories.
func Save(path string, p *Preset) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preset: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Validate checks the block size and that every node names a type.
func (p *Preset) Validate() error {
	if p.BlockSize < MinBlockSize || p.BlockSize > MaxBlockSize {
		return fmt.Errorf("block size must be in [%d, %d]: %d", MinBlockSize, MaxBlockSize, p.BlockSize)
	}

	for i, n := range p.Chain {
		if n.Type == "" {
			return fmt.Errorf("chain node %d has no type", i)
		}
	}
	return nil
}

// ChainParams converts the preset nodes into effect chain parameters.
func (p *Preset) ChainParams() []effectchain.Params {
	out := make([]effectchain.Params, 0, len(p.Chain))
	for _, n := range p.Chain {
		out = append(out, effectchain.Params{
			ID:       n.ID,
			Type:     n.Type,
			Bypassed: n.Bypassed,
			Num:      n.Params,
			Str:      n.Options,
		})
	}
	return out
}

// PitchPreset builds a single-node pitch chain.
func PitchPreset(semitones, cents, windowMs float64, oversampling, blockSize int) *Preset {
	return &Preset{
		BlockSize: blockSize,
		Chain: []Node{{
			ID:   "pitch",
			Type: effectchain.TypePitch,
			Params: map[string]float64{
				"semitones":    semitones,
				"cents":        cents,
				"windowMs":     windowMs,
				"oversampling": float64(oversampling),
			},
		}},
	}
}
