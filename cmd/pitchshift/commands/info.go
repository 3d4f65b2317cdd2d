package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goyamamoto/effetune-sub001/dsp/effects/pitch"
)

var (
	infoSampleRate   float64
	infoChannels     int
	infoWindowMs     float64
	infoOversampling int
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the frame geometry for given settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pitch.NewEngineConfig(infoSampleRate, infoChannels, infoWindowMs, infoOversampling)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "sample rate\t%.0f Hz\n", cfg.SampleRate)
		fmt.Fprintf(tw, "channels\t%d\n", cfg.Channels)
		fmt.Fprintf(tw, "window\t%.1f ms\n", cfg.WindowMs)
		fmt.Fprintf(tw, "frame size\t%d\n", cfg.FrameSize)
		fmt.Fprintf(tw, "hop\t%d\n", cfg.Hop)
		fmt.Fprintf(tw, "oversampling\t%d\n", cfg.Oversampling)
		fmt.Fprintf(tw, "overlap\t%.1f%%\n", 100*cfg.OverlapFraction())
		fmt.Fprintf(tw, "bin spacing\t%.3f Hz\n", cfg.FreqPerBin)
		fmt.Fprintf(tw, "phase advance\t%.6f rad\n", cfg.ExpectedPhaseAdvance)
		fmt.Fprintf(tw, "latency\t%d samples (%.2f ms)\n", cfg.FrameSize, 1000*cfg.LatencySeconds())
		return tw.Flush()
	},
}

func init() {
	defaults := pitch.DefaultParameters()

	infoCmd.Flags().Float64Var(&infoSampleRate, "sample-rate", 48000, "sample rate in Hz")
	infoCmd.Flags().IntVar(&infoChannels, "channels", 2, "channel count")
	infoCmd.Flags().Float64Var(&infoWindowMs, "window-ms", defaults.WindowMs, "analysis window length in ms")
	infoCmd.Flags().IntVar(&infoOversampling, "oversampling", defaults.Oversampling, "frames per window")

	rootCmd.AddCommand(infoCmd)
}
