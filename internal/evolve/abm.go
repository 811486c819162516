package evolve

import "github.com/san-kum/timeode/internal/state"

// depth is the derivative history required by the 5th-order formulas.
const depth = 5

// Adams-Bashforth predictor and Adams-Moulton corrector weights, in units of
// h/720, newest derivative first. The corrector's leading weight multiplies
// the freshly predicted derivative.
var (
	abWeights = [depth]float64{1901, -2774, 2616, -1274, 251}
	amWeights = [depth]float64{251, 646, -264, 106, -19}
)

// ABM is the fixed-step Adams-Bashforth-Moulton predictor-corrector evolver.
// The corrector is applied exactly once per step (PECE), so the cost per
// step is two derivative evaluations, fixed and predictable.
//
// The first four steps bootstrap the derivative history with classical RK4;
// this phase briefly holds up to 10 live state copies, dropping to ~8 in
// steady state.
type ABM struct {
	base

	work state.Differentiable // typed view of base.y
	yp   state.State          // predicted state, becomes the accepted state on swap
	pred state.Differentiable // typed view of yp
	fp   state.State          // predicted derivative scratch

	ring  [depth]state.State // derivative history, ring[head] newest
	head  int
	nhist int

	// RK4 stage buffers, live only during bootstrap. k1 aliases the ring
	// head so only three stage slots and one trial state are needed.
	k2, k3, k4 state.State
	trial      state.State
	trialD     state.Differentiable

	pc, cc []complex128 // precomputed h-scaled weights
}

var _ Evolver = (*ABM)(nil)

// NewABM builds a predictor-corrector evolver for y with fixed step dt.
// y must implement state.Differentiable; with WithNormalize it must also
// implement state.Normalizer. Capability violations surface here, never
// during Evolve.
func NewABM(y state.State, dt float64, opts ...Option) (*ABM, error) {
	b, _, err := newBase(y, dt, opts)
	if err != nil {
		return nil, err
	}
	work, err := state.AsDifferentiable(b.y)
	if err != nil {
		return nil, err
	}
	e := &ABM{base: b, work: work}

	e.yp = b.y.Copy()
	e.pred, err = state.AsDifferentiable(e.yp)
	if err != nil {
		return nil, err
	}
	e.fp = state.Empty(b.y)

	e.pc = make([]complex128, depth)
	e.cc = make([]complex128, depth)
	for i := 0; i < depth; i++ {
		e.pc[i] = complex(dt*abWeights[i]/720, 0)
		e.cc[i] = complex(dt*amWeights[i]/720, 0)
	}

	// Seed the history with f(y0, t0).
	e.ring[0] = state.Empty(b.y)
	if _, err := e.work.ComputeDy(e.ring[0]); err != nil {
		return nil, err
	}
	e.nhist = 1
	return e, nil
}

// Evolve advances the state by steps steps of length dt.
func (e *ABM) Evolve(steps int) error {
	for i := 0; i < steps; i++ {
		var err error
		if e.nhist < depth {
			err = e.bootstrapStep()
		} else {
			err = e.peceStep()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// hist returns the i-th most recent stored derivative, hist(0) = f_n.
func (e *ABM) hist(i int) state.State {
	return e.ring[(e.head-i+depth)%depth]
}

// bootstrapStep takes one classical RK4 step and appends the derivative at
// the new point to the history.
func (e *ABM) bootstrapStep() error {
	t, h := e.t, e.dt

	if e.trial == nil {
		e.trial = state.Empty(e.y)
		var err error
		e.trialD, err = state.AsDifferentiable(e.trial)
		if err != nil {
			return err
		}
		e.k2 = state.Empty(e.y)
		e.k3 = state.Empty(e.y)
		e.k4 = state.Empty(e.y)
	}

	k1 := e.ring[e.head]

	if err := e.rkStage(k1, h/2, t+h/2, e.k2); err != nil {
		return err
	}
	if err := e.rkStage(e.k2, h/2, t+h/2, e.k3); err != nil {
		return err
	}
	if err := e.rkStage(e.k3, h, t+h, e.k4); err != nil {
		return err
	}

	w := []complex128{complex(h/6, 0), complex(h/3, 0), complex(h/3, 0), complex(h/6, 0)}
	if err := state.Combine(e.y, e.y, w, k1, e.k2, e.k3, e.k4); err != nil {
		return err
	}
	if err := e.renormalize(); err != nil {
		return err
	}

	e.t += h
	e.y.SetTime(e.t)

	next := (e.head + 1) % depth
	if e.ring[next] == nil {
		e.ring[next] = state.Empty(e.y)
	}
	if _, err := e.work.ComputeDy(e.ring[next]); err != nil {
		return err
	}
	e.head = next
	e.nhist++
	e.step++

	if e.nhist == depth {
		// Bootstrap is over; release the stage buffers.
		e.k2, e.k3, e.k4 = nil, nil, nil
		e.trial, e.trialD = nil, nil
	}
	return nil
}

// rkStage evaluates f(y + a*k, t) into dst using the shared trial buffer.
func (e *ABM) rkStage(k state.State, a, t float64, dst state.State) error {
	if err := e.trial.CopyFrom(e.y); err != nil {
		return err
	}
	if err := e.trial.Axpy(k, complex(a, 0)); err != nil {
		return err
	}
	e.trial.SetTime(t)
	_, err := e.trialD.ComputeDy(dst)
	return err
}

// peceStep performs one Predict-Evaluate-Correct-Evaluate cycle.
func (e *ABM) peceStep() error {
	t, h := e.t, e.dt

	// Predict: explicit Adams-Bashforth extrapolation.
	if err := state.Combine(e.yp, e.y, e.pc,
		e.hist(0), e.hist(1), e.hist(2), e.hist(3), e.hist(4)); err != nil {
		return err
	}

	// Evaluate the predicted derivative at t+h.
	e.yp.SetTime(t + h)
	if _, err := e.pred.ComputeDy(e.fp); err != nil {
		return err
	}

	// Correct: implicit Adams-Moulton combination, single pass.
	if err := state.Combine(e.yp, e.y, e.cc,
		e.fp, e.hist(0), e.hist(1), e.hist(2), e.hist(3)); err != nil {
		return err
	}

	// Accept the corrected state by swapping buffers.
	e.base.y, e.yp = e.yp, e.base.y
	e.work, e.pred = e.pred, e.work

	e.t += h
	e.y.SetTime(e.t)

	// Re-evaluate from the corrected state into the oldest history slot.
	next := (e.head + 1) % depth
	if _, err := e.work.ComputeDy(e.ring[next]); err != nil {
		return err
	}
	e.head = next

	if err := e.renormalize(); err != nil {
		return err
	}
	e.step++
	return nil
}
