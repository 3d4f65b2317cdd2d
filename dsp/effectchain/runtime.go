package effectchain

// Runtime is the per-node processing and configuration contract.
//
// Configure may be called repeatedly with new parameters or a new context;
// runtimes keep their processing state across calls unless the new settings
// require a reset. Process works in place on a channel-major block.
type Runtime interface {
	Configure(ctx Context, params Params) error
	Process(block []float64) error
}

// LatencyReporter is implemented by runtimes that delay their output.
type LatencyReporter interface {
	// Latency returns the delay in samples for the current configuration.
	Latency() int
}

// Resetter is implemented by runtimes with clearable processing state.
type Resetter interface {
	Reset()
}
