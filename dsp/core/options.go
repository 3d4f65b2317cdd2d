package core

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidStream is returned for unusable host stream settings.
var ErrInvalidStream = errors.New("core: invalid stream config")

// StreamConfig describes the host side of a processing stream: the rate it
// runs at and the size of the channel-major blocks it hands over.
type StreamConfig struct {
	SampleRate float64
	BlockSize  int
	Channels   int
}

// StreamOption mutates a StreamConfig.
type StreamOption func(*StreamConfig)

// WithSampleRate sets the stream sample rate in Hz.
func WithSampleRate(sampleRate float64) StreamOption {
	return func(cfg *StreamConfig) { cfg.SampleRate = sampleRate }
}

// WithBlockSize sets the frames per block.
func WithBlockSize(blockSize int) StreamOption {
	return func(cfg *StreamConfig) { cfg.BlockSize = blockSize }
}

// WithChannels sets the channel count.
func WithChannels(channels int) StreamOption {
	return func(cfg *StreamConfig) { cfg.Channels = channels }
}

// NewStreamConfig applies opts over 48 kHz stereo with 128-frame blocks and
// validates the result.
func NewStreamConfig(opts ...StreamOption) (StreamConfig, error) {
	cfg := StreamConfig{SampleRate: 48000, BlockSize: 128, Channels: 2}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !(cfg.SampleRate > 0) || !IsFinite(cfg.SampleRate) {
		return StreamConfig{}, fmt.Errorf("%w: sample rate %f", ErrInvalidStream, cfg.SampleRate)
	}

	if cfg.BlockSize < 1 {
		return StreamConfig{}, fmt.Errorf("%w: block size %d", ErrInvalidStream, cfg.BlockSize)
	}

	if cfg.Channels < 1 {
		return StreamConfig{}, fmt.Errorf("%w: %d channels", ErrInvalidStream, cfg.Channels)
	}

	return cfg, nil
}

// BufferLen returns the channel-major buffer length for one block.
func (c StreamConfig) BufferLen() int {
	return c.Channels * c.BlockSize
}

// BlockDuration returns the wall-clock length of one block.
func (c StreamConfig) BlockDuration() time.Duration {
	return time.Duration(math.Round(float64(c.BlockSize) * float64(time.Second) / c.SampleRate))
}
