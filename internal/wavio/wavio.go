// Package wavio converts between PCM WAV files and channel-major float64
// buffers in [-1, 1).
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Errors returned by the decoder and encoder.
var (
	ErrInvalidFile = errors.New("wavio: not a valid WAV file")
	ErrUnsupported = errors.New("wavio: unsupported format")
)

const pcmFormat = 1

// Audio is a decoded clip. Data holds Channels consecutive runs of Frames()
// samples each.
type Audio struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Data       []float64
}

// Frames returns the number of samples per channel.
func (a *Audio) Frames() int {
	if a.Channels < 1 {
		return 0
	}

	return len(a.Data) / a.Channels
}

// Channel returns the samples of channel c as a subslice of Data.
func (a *Audio) Channel(c int) []float64 {
	n := a.Frames()
	return a.Data[c*n : (c+1)*n]
}

// Duration returns the clip length in seconds.
func (a *Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}

	return float64(a.Frames()) / float64(a.SampleRate)
}

func validBitDepth(bits int) bool {
	switch bits {
	case 8, 16, 24, 32:
		return true
	default:
		return false
	}
}

// Decode reads a PCM WAV stream.
func Decode(r io.ReadSeeker) (*Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}

	if dec.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: audio format %d", ErrUnsupported, dec.WavAudioFormat)
	}

	bits := int(dec.BitDepth)
	if !validBitDepth(bits) {
		return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupported, bits)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decode: %w", err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, channels)
	}

	frames := len(buf.Data) / channels
	out := &Audio{
		SampleRate: int(dec.SampleRate),
		Channels:   channels,
		BitDepth:   bits,
		Data:       make([]float64, frames*channels),
	}

	scale := fullScale(bits)
	offset := 0
	if bits == 8 {
		// 8-bit WAV is unsigned.
		offset = 128
	}

	for f := range frames {
		for c := range channels {
			out.Data[c*frames+f] = float64(buf.Data[f*channels+c]-offset) / scale
		}
	}

	return out, nil
}

// Encode writes a as PCM WAV. BitDepth defaults to 16 when zero. Samples are
// clipped to the representable range.
func Encode(w io.WriteSeeker, a *Audio) error {
	bits := a.BitDepth
	if bits == 0 {
		bits = 16
	}

	if !validBitDepth(bits) {
		return fmt.Errorf("%w: %d-bit samples", ErrUnsupported, bits)
	}

	if a.Channels < 1 || a.SampleRate <= 0 || len(a.Data)%a.Channels != 0 {
		return fmt.Errorf("%w: %d channels, %d Hz, %d samples",
			ErrUnsupported, a.Channels, a.SampleRate, len(a.Data))
	}

	frames := a.Frames()
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: a.Channels, SampleRate: a.SampleRate},
		Data:           make([]int, frames*a.Channels),
		SourceBitDepth: bits,
	}

	scale := fullScale(bits)
	offset := 0
	if bits == 8 {
		offset = 128
	}

	for c := range a.Channels {
		ch := a.Channel(c)
		for f, v := range ch {
			buf.Data[f*a.Channels+c] = quantize(v, scale) + offset
		}
	}

	enc := wav.NewEncoder(w, a.SampleRate, bits, a.Channels, pcmFormat)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}

	return nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavio: open %s: %w", path, err)
	}
	defer f.Close()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return a, nil
}

// WriteFile encodes a to path, replacing any existing file.
func WriteFile(path string, a *Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: create %s: %w", path, err)
	}

	if err := Encode(f, a); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func fullScale(bits int) float64 {
	return float64(int64(1) << (bits - 1))
}

func quantize(v, scale float64) int {
	if math.IsNaN(v) {
		return 0
	}

	q := math.Round(v * scale)
	q = math.Max(-scale, math.Min(scale-1, q))

	return int(q)
}
