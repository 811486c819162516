package analysis

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns the magnitude of the positive-frequency half of the
// discrete Fourier transform of data. Bin i corresponds to frequency
// i/(n*dt) cycles per unit time.
func PowerSpectrum(data []float64) []float64 {
	hat := fft.FFTReal(data)
	ps := make([]float64, len(hat)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(hat[i])
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit time, of the
// strongest non-constant mode of a uniformly sampled signal.
func DominantFrequency(times, data []float64) (float64, error) {
	if len(times) != len(data) {
		return 0, fmt.Errorf("analysis: %d times for %d samples", len(times), len(data))
	}
	if len(data) < 4 {
		return 0, fmt.Errorf("analysis: need at least 4 samples, got %d", len(data))
	}
	dt := times[1] - times[0]
	if dt <= 0 {
		return 0, fmt.Errorf("analysis: non-increasing sample times")
	}

	// Remove the mean so a constant offset does not bury the oscillation
	// in the DC bin.
	centered := make([]float64, len(data))
	copy(centered, data)
	floats.AddConst(-floats.Sum(data)/float64(len(data)), centered)

	ps := PowerSpectrum(centered)
	best := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	return float64(best) / (float64(len(data)) * dt), nil
}
