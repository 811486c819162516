// Package models provides concrete state backings for the capability
// contract in package state.
//
//   - [Vector]: real dense state over a flat buffer with a user-supplied
//     derivative rule; the workhorse for ordinary ODE systems.
//   - [Wave]: complex wavefunction on a periodic 1-D grid. Implements the
//     full contract: derivative evaluation, exact kinetic/potential
//     propagators (momentum-space kinetic step via FFT), decoupled
//     potentials, normalization and fused elementwise kernels. Supports an
//     optional g|psi|^2 self-interaction and imaginary-time propagation for
//     ground-state descent.
//   - [Map]: ordered named collection of sub-states, implementing each
//     capability by delegating to its children.
//
// The evolvers in package evolve never see these types; they only see the
// state interfaces.
package models
