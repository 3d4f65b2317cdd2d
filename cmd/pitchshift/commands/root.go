package commands

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pitchshift",
	Short: "Phase-vocoder pitch shifter",
	Long: `pitchshift - Shift the pitch of audio without changing its duration.

Audio runs through an effect chain built from flags or a YAML preset
(--preset). The chain supports the "pitch" and "gain" effects.

Examples:
  # Shift a file up a fifth
  pitchshift render -s 7 in.wav out.wav

  # Shift down an octave with latency compensation
  pitchshift render -s -12 --compensate in.wav out.wav

  # Run a preset on the default audio device
  pitchshift live --preset fifth.yaml

  # Show the frame geometry for 60 ms windows at 44.1 kHz
  pitchshift info --window-ms 60 --sample-rate 44100`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logrus.SetOutput(cmd.ErrOrStderr())
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.InfoLevel)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
