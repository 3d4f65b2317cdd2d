package commands

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goyamamoto/effetune-sub001/dsp/core"
	"github.com/goyamamoto/effetune-sub001/dsp/effectchain"
	"github.com/goyamamoto/effetune-sub001/dsp/spectrum"
	"github.com/goyamamoto/effetune-sub001/internal/testutil"
	"github.com/goyamamoto/effetune-sub001/internal/wavio"
)

func TestInfo(t *testing.T) {
	stdout, _, err := runCmd(t, "info", "--sample-rate", "48000", "--window-ms", "40")
	require.NoError(t, err)

	assert.Regexp(t, `frame size\s+2048`, stdout)
	assert.Regexp(t, `hop\s+256`, stdout)
	assert.Regexp(t, `overlap\s+87\.5%`, stdout)
	assert.Contains(t, stdout, "2048 samples")
}

func TestInfoOverlapFollowsOversampling(t *testing.T) {
	stdout, _, err := runCmd(t, "info", "--window-ms", "40", "--oversampling", "4")
	require.NoError(t, err)

	assert.Regexp(t, `overlap\s+75\.0%`, stdout)
	assert.NotContains(t, stdout, "400.0%")
}

func TestInfoRejectsBadSettings(t *testing.T) {
	_, _, err := runCmd(t, "info", "--oversampling", "1")
	require.Error(t, err)

	_, _, err = runCmd(t, "info", "--sample-rate", "0")
	require.Error(t, err)
}

func TestRenderIdentity(t *testing.T) {
	in := writeSineWAV(t, 440, 8000, 4000)
	out := filepath.Join(t.TempDir(), "out.wav")

	stdout, _, err := runCmd(t, "render", in, out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote")

	src, err := wavio.ReadFile(in)
	require.NoError(t, err)
	dst, err := wavio.ReadFile(out)
	require.NoError(t, err)

	require.Equal(t, src.Frames(), dst.Frames())
	assert.InDeltaSlice(t, src.Data, dst.Data, 1e-12)
}

func TestRenderBitDepthAndPreset(t *testing.T) {
	in := writeSineWAV(t, 440, 8000, 2000)
	out := filepath.Join(t.TempDir(), "out.wav")

	preset := filepath.Join(t.TempDir(), "half.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("blockSize: 100\nchain:\n  - type: gain\n    params:\n      db: -6.0206\n"), 0o644))

	_, _, err := runCmd(t, "render", "--preset", preset, "--bit-depth", "24", in, out)
	require.NoError(t, err)

	src, err := wavio.ReadFile(in)
	require.NoError(t, err)
	dst, err := wavio.ReadFile(out)
	require.NoError(t, err)

	assert.Equal(t, 24, dst.BitDepth)
	for i := range src.Data {
		require.InDelta(t, src.Data[i]/2, dst.Data[i], 1e-4)
	}
}

func TestRenderErrors(t *testing.T) {
	in := writeSineWAV(t, 440, 8000, 100)
	out := filepath.Join(t.TempDir(), "out.wav")

	_, _, err := runCmd(t, "render", filepath.Join(t.TempDir(), "missing.wav"), out)
	require.Error(t, err)

	_, _, err = runCmd(t, "render", "--fft", "fftw", in, out)
	require.ErrorContains(t, err, "unknown FFT backend")

	_, _, err = runCmd(t, "render", "--block-size", "1", in, out)
	require.ErrorContains(t, err, "block size")

	_, _, err = runCmd(t, "render", "--window", "kaiser", "-s", "3", in, out)
	require.Error(t, err)

	_, _, err = runCmd(t, "render", in)
	require.Error(t, err)
}

func newTestChain(t *testing.T, sampleRate float64, channels int, specs ...effectchain.Params) *effectchain.Chain {
	t.Helper()

	c := effectchain.New(effectchain.Context{SampleRate: sampleRate, Channels: channels}, effectchain.DefaultRegistry())
	require.NoError(t, c.Load(specs))
	return c
}

func TestRenderAudioCompensation(t *testing.T) {
	const sr = 48000

	tone := testutil.DeterministicSine(440, sr, 0.5, sr/2)
	in := &wavio.Audio{SampleRate: sr, Channels: 1, BitDepth: 16, Data: tone}
	octave := effectchain.Params{Type: effectchain.TypePitch, Num: map[string]float64{"semitones": 12}}

	raw, err := renderAudio(in, newTestChain(t, sr, 1, octave), 512, false)
	require.NoError(t, err)
	require.Equal(t, in.Frames(), raw.Frames())
	testutil.RequireSilent(t, raw.Data[:256])

	aligned, err := renderAudio(in, newTestChain(t, sr, 1, octave), 512, true)
	require.NoError(t, err)
	require.Equal(t, in.Frames(), aligned.Frames())
	assert.Greater(t, testutil.RMS(aligned.Data[:1024]), 0.1)

	hz, err := spectrum.DominantFrequency(aligned.Data[4096:], sr, 16384)
	require.NoError(t, err)
	assert.InDelta(t, 0, core.CentsBetween(hz, 880), 10)
}

func TestRenderAudioBlockSizeInvariance(t *testing.T) {
	const sr = 16000

	noise := testutil.DeterministicNoise(7, 0.3, 6000)
	in := &wavio.Audio{SampleRate: sr, Channels: 2, Data: testutil.Planar(noise, noise)}
	down := effectchain.Params{Type: effectchain.TypePitch, Num: map[string]float64{"semitones": -5}}

	a, err := renderAudio(in, newTestChain(t, sr, 2, down), 64, false)
	require.NoError(t, err)

	b, err := renderAudio(in, newTestChain(t, sr, 2, down), 1000, false)
	require.NoError(t, err)

	testutil.RequireSliceNearlyEqual(t, a.Data, b.Data, 1e-9)
	testutil.RequireSliceNearlyEqual(t, a.Channel(0), a.Channel(1), 0)
}

func TestAnalyze(t *testing.T) {
	in := writeSineWAV(t, 1000, 48000, 24000)

	stdout, _, err := runCmd(t, "analyze", "--ref", "1000", in)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)

	for c, line := range lines {
		var ch int
		var hz float64
		_, err := fmt.Sscanf(line, "channel %d: %f Hz", &ch, &hz)
		require.NoError(t, err)
		assert.Equal(t, c, ch)
		assert.InDelta(t, 1000, hz, 3)
		assert.Contains(t, line, "cents")
		assert.Regexp(t, `purity (99|100)\.\d%`, line)
	}

	_, _, err = runCmd(t, "analyze", "--offset", "10", in)
	require.ErrorContains(t, err, "outside")
}

func f32Bytes(x []float32) []byte {
	b := make([]byte, 4*len(x))
	for i, v := range x {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return b
}

func TestLiveHostProcess(t *testing.T) {
	half := effectchain.Params{Type: effectchain.TypeGain, Num: map[string]float64{"db": 20 * math.Log10(0.5)}}
	cfg, err := core.NewStreamConfig(core.WithChannels(2), core.WithBlockSize(2))
	require.NoError(t, err)

	host := newLiveHost(newTestChain(t, cfg.SampleRate, 2, half), cfg, 1)

	// Interleaved L/R frames; larger than the preallocated ring.
	in := []float32{1, -1, 0.5, -0.5, 0.25, -0.25}
	out := make([]byte, 4*len(in))

	host.process(out, f32Bytes(in), 3)

	for i, v := range in {
		got := math.Float32frombits(binary.LittleEndian.Uint32(out[4*i:]))
		assert.InDelta(t, v/2, got, 1e-6, "sample %d", i)
	}

	select {
	case err := <-host.errs:
		t.Fatalf("unexpected processing error: %v", err)
	default:
	}
}

func TestLiveHostProcessDoesNotAllocate(t *testing.T) {
	half := effectchain.Params{Type: effectchain.TypeGain, Num: map[string]float64{"db": 20 * math.Log10(0.5)}}
	cfg, err := core.NewStreamConfig(core.WithChannels(2), core.WithBlockSize(64))
	require.NoError(t, err)

	host := newLiveHost(newTestChain(t, cfg.SampleRate, 2, half), cfg, 3)

	// A callback spanning the whole ring, and one past it.
	for _, frames := range []int{3 * 64, 4 * 64} {
		in := f32Bytes(make([]float32, 2*frames))
		out := make([]byte, len(in))

		allocs := testing.AllocsPerRun(10, func() {
			host.process(out, in, uint32(frames))
		})
		assert.Zero(t, allocs, "frames=%d", frames)
	}
}
