// Package main is the entry point for the pitchshift CLI.
//
// Usage:
//
//	pitchshift [flags] <command> [args]
//
// Commands:
//
//	render   - Process a WAV file through the effect chain
//	live     - Run the chain on a duplex audio device
//	info     - Show the frame geometry for given settings
//	analyze  - Print the dominant frequency of each channel of a WAV file
package main

import (
	"fmt"
	"os"

	"github.com/goyamamoto/effetune-sub001/cmd/pitchshift/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
