// Package state defines the capability contract between evolvers and the
// values they advance in time.
//
// A state is opaque to the evolvers: they only see the operations declared
// here. The minimal [State] interface covers copying and in-place linear
// algebra; everything an algorithm additionally needs is a separate,
// independently optional capability:
//
//   - [Differentiable]: dy/dt evaluation (required by evolve.ABM)
//   - [SplitState]: exact kinetic/potential propagators (required by evolve.Split)
//   - [PotentialSplitState]: decoupled potentials value for split stepping
//   - [Normalizer]: per-step projection onto a constraint manifold
//   - [Applier]: fused elementwise kernels, a pure performance hook
//
// Evolver constructors verify capabilities up front with [AsDifferentiable],
// [AsSplit] and friends, so a state missing a required method fails at
// construction with a [CapabilityError] rather than deep inside a step loop.
//
// # In-place discipline
//
// Axpy, Scale and CopyFrom mutate the receiver and never their arguments.
// Copy returns a logically independent, writeable value. A state's time is
// authoritative: callers must SetTime before invoking any time-dependent
// capability.
package state
