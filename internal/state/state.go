package state

// Dtype tags the value domain of a state's payload. Real states permit
// shortcuts: brakets skip conjugation and scaling by a complex factor with a
// nonzero imaginary part is a dtype mismatch.
type Dtype int

const (
	Real Dtype = iota
	Complex
)

func (d Dtype) String() string {
	switch d {
	case Real:
		return "real"
	case Complex:
		return "complex"
	default:
		return "unknown"
	}
}

// State is the minimal capability set every evolvable value must provide.
// All other operations in this package derive from these.
type State interface {
	// Time reports the time coordinate at which the payload is valid.
	Time() float64

	// SetTime declares the payload valid at t. Evolvers call this before
	// any time-dependent capability.
	SetTime(t float64)

	Dtype() Dtype

	// Writeable reports whether in-place mutation is currently permitted.
	Writeable() bool

	// Copy returns an independent writeable duplicate.
	Copy() State

	// CopyFrom overwrites the receiver's payload with src's payload,
	// preserving the receiver's identity.
	CopyFrom(src State) error

	// Axpy performs self += a*x. It never mutates x.
	Axpy(x State, a complex128) error

	// Scale performs self *= f.
	Scale(f complex128) error

	// Braket returns the inner product <self|x>, conjugate-linear in the
	// receiver for complex dtype, plain for real dtype, honoring any
	// embedded metric weight.
	Braket(x State) (complex128, error)
}

// Differentiable is required by the predictor-corrector evolver.
type Differentiable interface {
	State

	// ComputeDy evaluates dy/dt at the receiver's current time, writes the
	// result into dy (a state of matching shape, supplied by the caller to
	// keep the hot loop allocation-free) and returns it.
	ComputeDy(dy State) (State, error)
}

// SplitState is required by the operator-split evolver. The evolution law
// must factor as dy/dt = -i(K + V[y])y with K state-independent and both
// pieces exactly exponentiable over an arbitrary sub-step.
type SplitState interface {
	State

	// Linear reports whether V is independent of the state, unlocking the
	// cheaper code path that skips per-step potential evaluation.
	Linear() bool

	// ApplyExpK applies exp(-i*K*dt) in place.
	ApplyExpK(dt float64) error

	// ApplyExpV applies exp(-i*V*dt) in place, with the potential computed
	// from source. A nil source means the receiver seeds its own
	// nonlinearity.
	ApplyExpV(dt float64, source State) error
}

// Potential is the decoupled potentials value used by [PotentialSplitState].
// It only needs to behave like an array: copying, scaled accumulation and
// scaling, so the evolver can form combinations such as (V1-V0)/2.
type Potential interface {
	Copy() Potential
	Axpy(x Potential, a float64) error
	Scale(f float64)
}

// PotentialSplitState extends SplitState for problems where the potential is
// much smaller than the full state. The evolver then maintains potentials
// separately instead of copying whole states.
type PotentialSplitState interface {
	SplitState

	// Potentials evaluates V at the receiver's current time from the
	// receiver's own payload.
	Potentials() (Potential, error)

	// ApplyExpVPotential applies exp(-i*V*dt) in place using a previously
	// computed potentials value.
	ApplyExpVPotential(dt float64, pot Potential) error
}

// Normalizer is the optional per-step constraint hook. Evolvers configured
// with normalization call Normalize once after each completed step, which
// turns non-unitary (imaginary-time) evolution into a descent toward a
// stationary state.
type Normalizer interface {
	State

	// Normalize projects the state onto its normalization manifold in
	// place, orthogonalizing components if the implementation requires it.
	Normalize() error
}

// Kernel is an elementwise expression over aligned component buffers.
// out may alias one of args.
type Kernel func(out []complex128, args ...[]complex128)

// Applier is a pure performance hook: evaluate a fused elementwise kernel
// over the receiver and args instead of a chain of temporary-allocating
// minimal operations. Implementations must be behaviorally equivalent to the
// naive composition.
type Applier interface {
	State

	// Apply runs k over each component, writing into the receiver. Every
	// arg must share the receiver's shape.
	Apply(k Kernel, args ...State) error
}
