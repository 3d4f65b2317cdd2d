package pitch

import (
	"math"
	"math/cmplx"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"
)

// processStream feeds equal-length channels through e in host-sized blocks
// and returns the processed channels.
func processStream(t testing.TB, e *Engine, p Parameters, sampleRate float64, blockSize int, channels ...[]float64) [][]float64 {
	t.Helper()

	total := len(channels[0])
	out := make([][]float64, len(channels))

	for c := range out {
		out[c] = make([]float64, total)
	}

	block := make([]float64, len(channels)*blockSize)

	for start := 0; start < total; start += blockSize {
		n := min(blockSize, total-start)
		buf := block[:len(channels)*n]

		for c, ch := range channels {
			copy(buf[c*n:(c+1)*n], ch[start:start+n])
		}

		err := e.Process(buf, p, len(channels), n, sampleRate)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}

		for c := range channels {
			copy(out[c][start:start+n], buf[c*n:(c+1)*n])
		}
	}

	return out
}

func newTestEngine(t testing.TB, opts ...Option) *Engine {
	t.Helper()

	e, err := NewEngine(opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	return e
}

// dominantFrequencyHz measures the strongest component of x with gonum's FFT,
// independent of the transforms under test.
func dominantFrequencyHz(x []float64, sampleRate float64) float64 {
	n := len(x)
	seq := make([]float64, n)

	for i, v := range x {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
		seq[i] = v * w
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, seq)

	best := 1
	for k := 1; k < len(coeffs)-1; k++ {
		if cmplx.Abs(coeffs[k]) > cmplx.Abs(coeffs[best]) {
			best = k
		}
	}

	l := math.Log(cmplx.Abs(coeffs[best-1]) + 1e-300)
	c := math.Log(cmplx.Abs(coeffs[best]) + 1e-300)
	r := math.Log(cmplx.Abs(coeffs[best+1]) + 1e-300)

	offset := 0.0
	if den := l - 2*c + r; den != 0 {
		offset = 0.5 * (l - r) / den
	}

	return (float64(best) + offset) * sampleRate / float64(n)
}

func centsOff(got, want float64) float64 {
	return math.Abs(1200 * math.Log2(got/want))
}
