package commands

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goyamamoto/effetune-sub001/dsp/core"
	"github.com/goyamamoto/effetune-sub001/dsp/effectchain"
)

var (
	liveFlags      chainFlags
	liveSampleRate float64
	liveChannels   int
	livePeriods    int
	liveDuration   time.Duration
)

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run the effect chain on a duplex audio device",
	Long: `Run the effect chain on the default capture and playback devices.

Audio is exchanged as 32-bit float. Processing stops on Ctrl-C or after
--duration.`,
	Args: cobra.NoArgs,
	RunE: runLive,
}

func init() {
	liveFlags.register(liveCmd)
	liveCmd.Flags().Float64Var(&liveSampleRate, "sample-rate", 48000, "device sample rate in Hz")
	liveCmd.Flags().IntVar(&liveChannels, "channels", 2, "device channel count")
	liveCmd.Flags().IntVar(&livePeriods, "periods", 3, "device buffer periods")
	liveCmd.Flags().DurationVar(&liveDuration, "duration", 0, "stop after this long (0 runs until interrupted)")

	rootCmd.AddCommand(liveCmd)
}

// liveHost adapts the device callback to the chain. The device invokes
// process serially, so the chain sees ordered, non-overlapping blocks.
type liveHost struct {
	chain     *effectchain.Chain
	channels  int
	maxFrames int

	in32  []float32
	out32 []float32
	block []float64

	errs chan error
}

// newLiveHost sizes every buffer for the whole device ring of periods blocks,
// so the data callback never allocates.
func newLiveHost(chain *effectchain.Chain, cfg core.StreamConfig, periods int) *liveHost {
	maxFrames := cfg.BlockSize * max(periods, 1)
	n := maxFrames * cfg.Channels

	return &liveHost{
		chain:     chain,
		channels:  cfg.Channels,
		maxFrames: maxFrames,
		in32:      make([]float32, n),
		out32:     make([]float32, n),
		block:     make([]float64, n),
		errs:      make(chan error, 1),
	}
}

// process is the malgo data callback: interleaved float32 in, interleaved
// float32 out. Callbacks longer than the preallocated buffers are handled in
// consecutive chunks.
func (h *liveHost) process(out, in []byte, frameCount uint32) {
	stride := 4 * h.channels

	for done := 0; done < int(frameCount); done += h.maxFrames {
		frames := min(int(frameCount)-done, h.maxFrames)
		off := done * stride

		h.processChunk(sliceFrom(out, off), sliceFrom(in, off), frames*h.channels)
	}
}

func (h *liveHost) processChunk(out, in []byte, n int) {
	in32 := h.in32[:n]
	out32 := h.out32[:n]
	block := h.block[:n]

	for i := range in32 {
		if 4*i+4 <= len(in) {
			in32[i] = math.Float32frombits(binary.LittleEndian.Uint32(in[4*i:]))
		} else {
			in32[i] = 0
		}
	}

	core.Deinterleave32(block, in32, h.channels)

	if err := h.chain.Process(block); err != nil {
		select {
		case h.errs <- err:
		default:
		}

		core.Zero(block)
	}

	core.Interleave32(out32, block, h.channels)

	for i, v := range out32 {
		if 4*i+4 > len(out) {
			break
		}

		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
}

func sliceFrom(b []byte, off int) []byte {
	if off >= len(b) {
		return nil
	}

	return b[off:]
}

func runLive(cmd *cobra.Command, args []string) error {
	if livePeriods < 1 {
		return fmt.Errorf("periods must be >= 1: %d", livePeriods)
	}

	chain, preset, err := liveFlags.buildChain(liveSampleRate, liveChannels)
	if err != nil {
		return err
	}

	hostCfg, err := core.NewStreamConfig(
		core.WithSampleRate(liveSampleRate),
		core.WithChannels(liveChannels),
		core.WithBlockSize(preset.BlockSize),
	)
	if err != nil {
		return err
	}

	host := newLiveHost(chain, hostCfg, livePeriods)

	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logrus.WithField("source", "malgo").Debug(strings.TrimSpace(message))
	})
	if err != nil {
		return fmt.Errorf("init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	format := malgo.FormatF32
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.PerformanceProfile = malgo.LowLatency
	deviceConfig.Capture.Format = format
	deviceConfig.Capture.Channels = uint32(hostCfg.Channels)
	deviceConfig.Playback.Format = format
	deviceConfig.Playback.Channels = uint32(hostCfg.Channels)
	deviceConfig.SampleRate = uint32(hostCfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(hostCfg.BlockSize)
	deviceConfig.Periods = uint32(livePeriods)

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: host.process,
	})
	if err != nil {
		return fmt.Errorf("init audio device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("start audio device: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"sampleRate": hostCfg.SampleRate,
		"channels":   hostCfg.Channels,
		"blockSize":  hostCfg.BlockSize,
		"blockTime":  hostCfg.BlockDuration(),
		"periods":    livePeriods,
		"latency":    chain.Latency(),
	}).Info("Audio device started")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if liveDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, liveDuration)
		defer cancel()
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to exit")

	select {
	case <-ctx.Done():
	case err = <-host.errs:
		err = fmt.Errorf("processing failed: %w", err)
	}

	if stopErr := device.Stop(); stopErr != nil {
		logrus.WithError(stopErr).Warn("Stopping audio device failed")
	}

	logrus.Info("Audio device stopped")
	return err
}
