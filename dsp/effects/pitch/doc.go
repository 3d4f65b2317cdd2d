// Package pitch provides a streaming phase-vocoder pitch shifter for
// block-based real-time audio.
//
// The [Engine] changes pitch without changing duration. Samples flow through
// a per-channel frame buffer with one frame of latency; every hop a Hann
// windowed frame is analyzed into per-bin magnitude and instantaneous
// frequency, the bins are remapped by the pitch factor, and the shifted
// spectrum is resynthesized and overlap-added back into the output stream.
//
// Included types:
//   - Engine: multichannel, host-driven processor; state is owned per channel.
//   - Parameters / EngineConfig: per-call parameters and derived geometry.
//   - Shifter: mono convenience wrapper implementing PitchProcessor.
//
// None of the types are safe for concurrent use. Process does not allocate
// once the engine is configured for the current frame geometry.
package pitch
