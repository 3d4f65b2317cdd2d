package pitch

// PitchProcessor is the mono, setter-driven pitch shifting API. Process
// returns a new buffer; ProcessInPlace overwrites its argument. Output lags
// input by Latency() samples while shifting.
//
//nolint:revive
type PitchProcessor interface {
	SampleRate() float64
	SetSampleRate(sampleRate float64) error

	PitchRatio() float64
	PitchSemitones() float64
	SetPitchRatio(ratio float64) error
	SetPitchSemitones(semitones float64) error

	Latency() int
	Reset()
	Process(input []float64) []float64
	ProcessInPlace(buf []float64)
}

var _ PitchProcessor = (*Shifter)(nil)
