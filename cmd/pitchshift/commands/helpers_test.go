package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/goyamamoto/effetune-sub001/internal/testutil"
	"github.com/goyamamoto/effetune-sub001/internal/wavio"
)

// runCmd executes the root command with args and returns its output.
func runCmd(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	verbose = false

	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()

	resetFlags(rootCmd)
	return outBuf.String(), errBuf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		f.Changed = false
		_ = f.Value.Set(f.DefValue)
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeSineWAV writes a 16-bit stereo sine clip and returns its path.
func writeSineWAV(t *testing.T, freqHz float64, sampleRate, frames int) string {
	t.Helper()

	sr := float64(sampleRate)
	clip := &wavio.Audio{
		SampleRate: sampleRate,
		Channels:   2,
		BitDepth:   16,
		Data: testutil.Planar(
			testutil.DeterministicSine(freqHz, sr, 0.5, frames),
			testutil.DeterministicSine(freqHz, sr, 0.25, frames),
		),
	}

	path := filepath.Join(t.TempDir(), "sine.wav")
	require.NoError(t, wavio.WriteFile(path, clip))
	return path
}
