package analysis

import (
	"math"
	"testing"
)

// sample builds n uniform samples of sin(2 pi f t) + offset.
func sample(n int, dt, f, offset float64) ([]float64, []float64) {
	times := make([]float64, n)
	data := make([]float64, n)
	for i := range times {
		t := float64(i) * dt
		times[i] = t
		data[i] = math.Sin(2*math.Pi*f*t) + offset
	}
	return times, data
}

func TestDominantFrequency(t *testing.T) {
	const (
		n  = 256
		dt = 0.1
	)
	// Put the signal exactly on bin 20.
	f := 20.0 / (n * dt)
	times, data := sample(n, dt, f, 0)

	got, err := DominantFrequency(times, data)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-f) > 1e-12 {
		t.Errorf("dominant frequency: got %v, want %v", got, f)
	}
}

func TestDominantFrequencyIgnoresOffset(t *testing.T) {
	const (
		n  = 256
		dt = 0.1
	)
	f := 20.0 / (n * dt)
	times, data := sample(n, dt, f, 5)

	got, err := DominantFrequency(times, data)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-f) > 1e-12 {
		t.Errorf("offset leaked into spectrum: got %v, want %v", got, f)
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, err := DominantFrequency([]float64{0, 1}, []float64{0}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := DominantFrequency([]float64{0, 1, 2}, []float64{0, 1, 2}); err == nil {
		t.Error("expected error for too few samples")
	}
	if _, err := DominantFrequency([]float64{0, 0, 0, 0}, []float64{1, 2, 3, 4}); err == nil {
		t.Error("expected error for non-increasing times")
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 128))
	if len(ps) != 64 {
		t.Errorf("expected 64 positive-frequency bins, got %d", len(ps))
	}
}
