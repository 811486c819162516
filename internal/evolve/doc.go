// Package evolve advances a state through fixed time steps.
//
// Two algorithms are provided behind the common [Evolver] interface:
//
//   - [ABM]: 5th-order Adams-Bashforth-Moulton predictor-corrector. Needs
//     only the derivative capability, costs ~8 live state copies in steady
//     state (10 during the Runge-Kutta bootstrap), one derivative pair per
//     step.
//   - [Split]: symmetric 2nd-order Trotter operator splitting. Needs the
//     split-operator capability, costs 1-2 live copies, and preserves the
//     state norm exactly for unitary kinetic and potential pieces.
//
// Both are strictly fixed-step: dt is set at construction and never varies.
// Conserved quantities of the underlying problem are not enforced by ABM;
// drift over a long run means dt is too large, not that the stepper is
// broken. Split preserves the norm structurally, independent of dt.
//
// An evolver owns its working state. By default the initial state is copied
// at construction; WithoutCopy hands ownership of the caller's instance to
// the evolver, after which the caller must not mutate it.
//
// Errors raised inside user capabilities propagate unmodified out of
// [Evolver.Evolve]; the evolver's history is unspecified afterwards and the
// evolver must be discarded, not resumed.
package evolve
