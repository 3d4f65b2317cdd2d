package effectchain

// Context provides the stream settings effect runtimes are configured for.
type Context struct {
	SampleRate float64
	// Channels is the number of channels in a block. Blocks are channel-major.
	Channels int
}

// frames returns the per-channel length of a channel-major block.
func (c Context) frames(block []float64) (int, bool) {
	if c.Channels < 1 || len(block)%c.Channels != 0 {
		return 0, false
	}

	return len(block) / c.Channels, true
}
