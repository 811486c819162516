package evolve

import (
	"fmt"

	"github.com/san-kum/timeode/internal/state"
)

// Evolver is the uniform entry point shared by both stepping algorithms.
type Evolver interface {
	// Evolve advances the working state by steps steps of length dt.
	// Evolve(0) is a no-op.
	Evolve(steps int) error

	// Y returns an independent copy of the current state, so callers
	// cannot mutate the evolver's working buffer through it.
	Y() state.State

	// T returns the current time.
	T() float64

	// Step returns the number of completed steps.
	Step() int
}

// Option configures an evolver at construction.
type Option func(*options)

type options struct {
	t0        float64
	normalize bool
	copy      bool
	companion state.State
}

// WithTime sets the initial time (default 0).
func WithTime(t0 float64) Option {
	return func(o *options) { o.t0 = t0 }
}

// WithNormalize enables the per-step normalization hook. The state must
// implement state.Normalizer.
func WithNormalize() Option {
	return func(o *options) { o.normalize = true }
}

// WithoutCopy makes the evolver take ownership of the caller's state
// instance instead of copying it. The caller must not mutate the state
// afterwards; this aliasing contract is documented, not enforced.
func WithoutCopy() Option {
	return func(o *options) { o.copy = false }
}

// WithCompanion supplies an external state that seeds the nonlinear
// potential of a Split evolver. Ignored by ABM.
func WithCompanion(ys state.State) Option {
	return func(o *options) { o.companion = ys }
}

// base carries the working state and bookkeeping common to both evolvers.
type base struct {
	y         state.State
	t         float64
	dt        float64
	step      int
	normalize bool
}

func newBase(y state.State, dt float64, opts []Option) (base, options, error) {
	o := options{copy: true}
	for _, opt := range opts {
		opt(&o)
	}
	if dt <= 0 {
		return base{}, o, fmt.Errorf("evolve: dt must be positive, got %g", dt)
	}
	if o.copy {
		y = y.Copy()
	}
	if o.normalize {
		if _, err := state.AsNormalizer(y); err != nil {
			return base{}, o, err
		}
	}
	b := base{y: y, t: o.t0, dt: dt, normalize: o.normalize}
	y.SetTime(b.t)
	return b, o, nil
}

func (b *base) Y() state.State { return b.y.Copy() }
func (b *base) T() float64     { return b.t }
func (b *base) Step() int      { return b.step }
func (b *base) Dt() float64    { return b.dt }

// renormalize applies the optional constraint hook once per completed step.
func (b *base) renormalize() error {
	if !b.normalize {
		return nil
	}
	return b.y.(state.Normalizer).Normalize()
}
