package models

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/timeode/internal/state"
)

// Deriv is the right-hand-side rule of a real ODE system: it evaluates
// dy/dt at time t into dy. It must not retain or mutate y.
type Deriv func(t float64, y, dy []float64)

// Vector is a real dense state over a flat buffer. The derivative rule is
// supplied at construction, so one type serves arbitrary real ODE systems.
type Vector struct {
	t         float64
	data      []float64
	deriv     Deriv
	writeable bool
}

var _ state.Differentiable = (*Vector)(nil)

// NewVector builds a writeable real state holding a copy of data.
func NewVector(data []float64, deriv Deriv) *Vector {
	d := make([]float64, len(data))
	copy(d, data)
	return &Vector{data: d, deriv: deriv, writeable: true}
}

// Data returns the backing buffer. Mutating it bypasses the writeable flag.
func (v *Vector) Data() []float64 { return v.data }

// Freeze marks the state read-only, protecting a shared buffer.
func (v *Vector) Freeze() { v.writeable = false }

func (v *Vector) Time() float64     { return v.t }
func (v *Vector) SetTime(t float64) { v.t = t }
func (v *Vector) Dtype() state.Dtype {
	return state.Real
}
func (v *Vector) Writeable() bool { return v.writeable }

func (v *Vector) Copy() state.State {
	c := &Vector{t: v.t, data: make([]float64, len(v.data)), deriv: v.deriv, writeable: true}
	copy(c.data, v.data)
	return c
}

func (v *Vector) other(x state.State) (*Vector, error) {
	xv, ok := x.(*Vector)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a *Vector", state.ErrShapeMismatch, x)
	}
	if len(xv.data) != len(v.data) {
		return nil, fmt.Errorf("%w: %d vs %d", state.ErrShapeMismatch, len(v.data), len(xv.data))
	}
	return xv, nil
}

func (v *Vector) CopyFrom(src state.State) error {
	if !v.writeable {
		return state.ErrReadOnly
	}
	sv, err := v.other(src)
	if err != nil {
		return err
	}
	copy(v.data, sv.data)
	v.t = sv.t
	return nil
}

func (v *Vector) Axpy(x state.State, a complex128) error {
	if !v.writeable {
		return state.ErrReadOnly
	}
	if imag(a) != 0 {
		return fmt.Errorf("%w: complex coefficient %v on a real state", state.ErrDtypeMismatch, a)
	}
	xv, err := v.other(x)
	if err != nil {
		return err
	}
	floats.AddScaled(v.data, real(a), xv.data)
	return nil
}

func (v *Vector) Scale(f complex128) error {
	if !v.writeable {
		return state.ErrReadOnly
	}
	if imag(f) != 0 {
		return fmt.Errorf("%w: complex factor %v on a real state", state.ErrDtypeMismatch, f)
	}
	floats.Scale(real(f), v.data)
	return nil
}

// Braket returns the plain (unconjugated) inner product of two real states.
func (v *Vector) Braket(x state.State) (complex128, error) {
	xv, err := v.other(x)
	if err != nil {
		return 0, err
	}
	return complex(floats.Dot(v.data, xv.data), 0), nil
}

func (v *Vector) ComputeDy(dy state.State) (state.State, error) {
	dv, err := v.other(dy)
	if err != nil {
		return nil, err
	}
	if !dv.writeable {
		return nil, state.ErrReadOnly
	}
	v.deriv(v.t, v.data, dv.data)
	return dv, nil
}
