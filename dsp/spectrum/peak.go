package spectrum

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/goyamamoto/effetune-sub001/dsp/window"
)

// ErrNoPeak is returned when the analyzed block has no spectral energy above DC.
var ErrNoPeak = errors.New("spectrum: no spectral peak found")

// Peak describes the strongest spectral component of a block.
type Peak struct {
	// Bin is the integer FFT bin of the maximum.
	Bin int
	// FrequencyHz is the interpolated peak frequency.
	FrequencyHz float64
	// Magnitude is the windowed magnitude at Bin.
	Magnitude float64
	// Amplitude estimates the sinusoid amplitude from Magnitude. Off-bin
	// tones read up to 1.4 dB low.
	Amplitude float64
	// Purity is the share of the one-sided non-DC power within the Hann main
	// lobe around Bin. A clean sinusoid reads close to 1.
	Purity float64
}

// PeakAnalyzer estimates the dominant frequency of real-valued blocks with a
// Hann-windowed FFT and log-parabolic interpolation around the maximum bin.
//
// All buffers are allocated in NewPeakAnalyzer. A PeakAnalyzer is not safe
// for concurrent use.
type PeakAnalyzer struct {
	size int
	plan *algofft.Plan[complex128]
	win  []float64
	buf  []complex128
	re   []float64
	im   []float64
	mag  []float64
	pow  []float64
}

// NewPeakAnalyzer creates an analyzer with the given power-of-two FFT size.
func NewPeakAnalyzer(size int) (*PeakAnalyzer, error) {
	if size < 8 || size&(size-1) != 0 {
		return nil, fmt.Errorf("spectrum peak analyzer size must be a power of two >= 8: %d", size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum peak analyzer: %w", err)
	}

	return &PeakAnalyzer{
		size: size,
		plan: plan,
		win:  window.Generate(window.TypeHann, size, window.WithPeriodic()),
		buf:  make([]complex128, size),
		re:   make([]float64, size),
		im:   make([]float64, size),
		mag:  make([]float64, size),
		pow:  make([]float64, size),
	}, nil
}

// Size returns the FFT size.
func (a *PeakAnalyzer) Size() int { return a.size }

// Dominant analyzes the first Size() samples of x (zero-padded if x is
// shorter) and returns the strongest non-DC component.
func (a *PeakAnalyzer) Dominant(x []float64, sampleRate float64) (Peak, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Peak{}, fmt.Errorf("spectrum sample rate must be positive and finite: %f", sampleRate)
	}

	n := min(len(x), a.size)
	clear(a.re)
	copy(a.re, x[:n])

	err := window.ApplyCoefficientsInPlace(a.re, a.win)
	if err != nil {
		return Peak{}, err
	}

	for i, v := range a.re {
		a.buf[i] = complex(v, 0)
	}

	err = a.plan.Forward(a.buf, a.buf)
	if err != nil {
		return Peak{}, fmt.Errorf("spectrum peak analyzer: %w", err)
	}

	SplitComplex(a.re, a.im, a.buf)
	MagnitudeFromParts(a.mag, a.re, a.im)

	half := a.size / 2
	best := 0

	for k := 1; k < half; k++ {
		if a.mag[k] > a.mag[best] {
			best = k
		}
	}

	if best == 0 || a.mag[best] == 0 {
		return Peak{}, ErrNoPeak
	}

	offset := parabolicOffset(a.mag[best-1], a.mag[best], a.mag[best+1])

	PowerFromParts(a.pow, a.re, a.im)

	var total, lobe float64
	for k := 1; k < half; k++ {
		total += a.pow[k]
		if k >= best-2 && k <= best+2 {
			lobe += a.pow[k]
		}
	}

	return Peak{
		Bin:         best,
		FrequencyHz: (float64(best) + offset) * sampleRate / float64(a.size),
		Magnitude:   a.mag[best],
		// Hann coherent gain 1/2, one-sided spectrum 1/2.
		Amplitude: 4 * a.mag[best] / float64(a.size),
		Purity:    lobe / total,
	}, nil
}

// DominantPeak analyzes x with the largest power-of-two FFT that fits in
// len(x), capped at maxSize.
func DominantPeak(x []float64, sampleRate float64, maxSize int) (Peak, error) {
	size := 8
	for size*2 <= len(x) && size*2 <= maxSize {
		size *= 2
	}

	if len(x) < size {
		return Peak{}, fmt.Errorf("spectrum needs at least %d samples: %d", size, len(x))
	}

	a, err := NewPeakAnalyzer(size)
	if err != nil {
		return Peak{}, err
	}

	return a.Dominant(x, sampleRate)
}

// DominantFrequency is DominantPeak reduced to the peak frequency.
func DominantFrequency(x []float64, sampleRate float64, maxSize int) (float64, error) {
	p, err := DominantPeak(x, sampleRate, maxSize)
	if err != nil {
		return 0, err
	}

	return p.FrequencyHz, nil
}

// parabolicOffset fits a parabola through three log magnitudes and returns
// the vertex offset from the center bin in [-0.5, 0.5].
func parabolicOffset(left, center, right float64) float64 {
	const floor = 1e-300

	l := math.Log(math.Max(left, floor))
	c := math.Log(math.Max(center, floor))
	r := math.Log(math.Max(right, floor))

	den := l - 2*c + r
	if den == 0 {
		return 0
	}

	return math.Max(-0.5, math.Min(0.5, 0.5*(l-r)/den))
}
