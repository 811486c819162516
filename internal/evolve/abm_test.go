package evolve_test

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/san-kum/timeode/internal/evolve"
	"github.com/san-kum/timeode/internal/models"
	"github.com/san-kum/timeode/internal/state"
)

// dy/dt = -y^2 has the closed form y(t) = y0/(1+y0*t).
func riccati(t float64, y, dy []float64) {
	for i := range y {
		dy[i] = -y[i] * y[i]
	}
}

func riccatiExact(y0, t float64) float64 { return y0 / (1 + y0*t) }

func newRiccati() *models.Vector {
	return models.NewVector([]float64{1, 2}, riccati)
}

func riccatiError(t *testing.T, h float64, steps int) float64 {
	t.Helper()
	ev, err := evolve.NewABM(newRiccati(), h)
	if err != nil {
		t.Fatalf("construction failed: %v", err)
	}
	if err := ev.Evolve(steps); err != nil {
		t.Fatalf("evolve failed: %v", err)
	}
	final := ev.Y().(*models.Vector).Data()
	maxErr := 0.0
	for i, y0 := range []float64{1, 2} {
		if e := math.Abs(final[i] - riccatiExact(y0, ev.T())); e > maxErr {
			maxErr = e
		}
	}
	return maxErr
}

func TestABMClosedForm(t *testing.T) {
	if e := riccatiError(t, 0.001, 1000); e > 1e-9 {
		t.Errorf("error at t=1 too large: %v", e)
	}
}

// Halving h must shrink the error roughly 32x for a 5th-order method.
func TestABMOrder(t *testing.T) {
	e1 := riccatiError(t, 0.04, 25)
	e2 := riccatiError(t, 0.02, 50)
	e3 := riccatiError(t, 0.01, 100)

	r12 := e1 / e2
	r23 := e2 / e3
	if r12 < 20 || r23 < 20 {
		t.Errorf("error not shrinking at 5th order: ratios %.1f, %.1f (errors %g, %g, %g)",
			r12, r23, e1, e2, e3)
	}
}

// The bootstrap steps must agree with a high-accuracy reference to within
// the RK4 truncation error.
func TestABMBootstrap(t *testing.T) {
	const h = 0.01
	ev, err := evolve.NewABM(newRiccati(), h)
	if err != nil {
		t.Fatal(err)
	}
	if err := ev.Evolve(4); err != nil {
		t.Fatal(err)
	}

	ref, err := evolve.NewABM(newRiccati(), h/100)
	if err != nil {
		t.Fatal(err)
	}
	if err := ref.Evolve(400); err != nil {
		t.Fatal(err)
	}

	if math.Abs(ev.T()-ref.T()) > 1e-12 {
		t.Fatalf("times diverged: %v vs %v", ev.T(), ref.T())
	}
	a := ev.Y().(*models.Vector).Data()
	b := ref.Y().(*models.Vector).Data()
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > 1e-8 {
			t.Errorf("bootstrap differs from reference at %d by %v", i, d)
		}
	}
}

func TestABMConstructionErrors(t *testing.T) {
	if _, err := evolve.NewABM(newRiccati(), 0); err == nil {
		t.Error("expected error for dt=0")
	}
	if _, err := evolve.NewABM(newRiccati(), -0.1); err == nil {
		t.Error("expected error for negative dt")
	}

	// A minimal-contract state has no derivative capability.
	_, err := evolve.NewABM(newInert(), 0.1)
	var capErr *state.CapabilityError
	if !errors.As(err, &capErr) {
		t.Errorf("expected CapabilityError, got %v", err)
	}

	// Normalization demands the normalizer capability.
	_, err = evolve.NewABM(newRiccati(), 0.1, evolve.WithNormalize())
	if !errors.As(err, &capErr) {
		t.Errorf("expected CapabilityError for normalize on plain vector, got %v", err)
	}
}

// The normalization hook holds the norm at 1 through dissipative evolution.
func TestABMNormalizeHook(t *testing.T) {
	w := models.GaussianWave(128, 40, 0, 1, 0,
		models.WithPotential(func(x, t float64) float64 { return x * x / 2 }),
		models.WithImaginaryTime())

	ev, err := evolve.NewABM(w, 0.001, evolve.WithNormalize())
	if err != nil {
		t.Fatal(err)
	}
	if err := ev.Evolve(20); err != nil {
		t.Fatal(err)
	}
	n, err := state.Norm(ev.Y())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(n-1) > 1e-12 {
		t.Errorf("normalize hook did not hold norm: %v", n)
	}

	// Without the hook the same evolution loses norm.
	w2 := models.GaussianWave(128, 40, 0, 1, 0,
		models.WithPotential(func(x, t float64) float64 { return x * x / 2 }),
		models.WithImaginaryTime())
	ev2, err := evolve.NewABM(w2, 0.001)
	if err != nil {
		t.Fatal(err)
	}
	if err := ev2.Evolve(20); err != nil {
		t.Fatal(err)
	}
	n2, _ := state.Norm(ev2.Y())
	if math.Abs(n2-1) < 1e-6 {
		t.Errorf("dissipative evolution without hook should lose norm, got %v", n2)
	}
}

// On a purely linear problem the two algorithms must agree: the split step
// is exact for a free particle and ABM converges at 5th order.
func TestABMMatchesSplit(t *testing.T) {
	const (
		h     = 0.001
		steps = 200
	)
	wABM := models.GaussianWave(128, 40, -5, 1, 2)
	wSplit := models.GaussianWave(128, 40, -5, 1, 2)

	ea, err := evolve.NewABM(wABM, h)
	if err != nil {
		t.Fatal(err)
	}
	es, err := evolve.NewSplit(wSplit, h)
	if err != nil {
		t.Fatal(err)
	}
	if err := ea.Evolve(steps); err != nil {
		t.Fatal(err)
	}
	if err := es.Evolve(steps); err != nil {
		t.Fatal(err)
	}

	pa := ea.Y().(*models.Wave).Psi()
	ps := es.Y().(*models.Wave).Psi()
	maxDiff := 0.0
	for i := range pa {
		if d := cmplx.Abs(pa[i] - ps[i]); d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff > 1e-6 {
		t.Errorf("ABM and split disagree on a linear problem: max diff %v", maxDiff)
	}
}

// inert satisfies only the minimal contract, so every evolver must reject it.
type inert struct{ v *models.Vector }

func newInert() state.State {
	return &inert{v: models.NewVector([]float64{1}, riccati)}
}

func (s *inert) Time() float64                { return s.v.Time() }
func (s *inert) SetTime(t float64)            { s.v.SetTime(t) }
func (s *inert) Dtype() state.Dtype           { return s.v.Dtype() }
func (s *inert) Writeable() bool              { return s.v.Writeable() }
func (s *inert) Copy() state.State            { return &inert{v: s.v.Copy().(*models.Vector)} }
func (s *inert) CopyFrom(x state.State) error { return s.v.CopyFrom(x.(*inert).v) }
func (s *inert) Axpy(x state.State, a complex128) error {
	return s.v.Axpy(x.(*inert).v, a)
}
func (s *inert) Scale(f complex128) error { return s.v.Scale(f) }
func (s *inert) Braket(x state.State) (complex128, error) {
	return s.v.Braket(x.(*inert).v)
}
