package commands

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/goyamamoto/effetune-sub001/dsp/core"
	"github.com/goyamamoto/effetune-sub001/dsp/spectrum"
	"github.com/goyamamoto/effetune-sub001/internal/wavio"
)

var (
	analyzeOffset float64
	analyzeSize   int
	analyzeRef    float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.wav>",
	Short: "Print the dominant frequency of each channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wavio.ReadFile(args[0])
		if err != nil {
			return err
		}

		start := int(math.Round(analyzeOffset * float64(a.SampleRate)))
		if start < 0 || start >= a.Frames() {
			return fmt.Errorf("offset %.3fs is outside the %.3fs file", analyzeOffset, a.Duration())
		}

		for c := range a.Channels {
			x := a.Channel(c)[start:]

			p, err := spectrum.DominantPeak(x, float64(a.SampleRate), analyzeSize)
			if err != nil {
				return fmt.Errorf("channel %d: %w", c, err)
			}

			line := fmt.Sprintf("channel %d: %.2f Hz at %.1f dBFS, purity %.1f%%", c, p.FrequencyHz, 20*math.Log10(p.Amplitude), 100*p.Purity)
			if analyzeRef > 0 {
				line += fmt.Sprintf(" (%+.1f cents vs %.2f Hz)", core.CentsBetween(p.FrequencyHz, analyzeRef), analyzeRef)
			}

			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		return nil
	},
}

func init() {
	analyzeCmd.Flags().Float64Var(&analyzeOffset, "offset", 0, "analysis start in seconds")
	analyzeCmd.Flags().IntVar(&analyzeSize, "fft-size", 16384, "largest FFT size to use")
	analyzeCmd.Flags().Float64Var(&analyzeRef, "ref", 0, "reference frequency for a cents readout")

	rootCmd.AddCommand(analyzeCmd)
}
