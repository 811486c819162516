package models

import (
	"fmt"

	"github.com/san-kum/timeode/internal/state"
)

// Map is an ordered, named collection of sub-states. It implements each
// capability by delegating to its children, so a composite system (several
// coupled fields, or a field plus auxiliary degrees of freedom) presents
// itself to the evolvers as a single state. Composition replaces the mixin
// hierarchy of classic array-backed state libraries.
//
// Delegated capabilities hold iff every child provides them: ComputeDy on a
// Map with a non-differentiable child reports a state.CapabilityError
// naming the child.
type Map struct {
	t         float64
	keys      []string
	parts     map[string]state.State
	writeable bool
}

var (
	_ state.Differentiable = (*Map)(nil)
	_ state.Normalizer     = (*Map)(nil)
)

// NewMap builds an empty writeable composite state.
func NewMap() *Map {
	return &Map{parts: make(map[string]state.State), writeable: true}
}

// Insert appends a named sub-state. Insertion order is the iteration order.
func (m *Map) Insert(name string, y state.State) error {
	if _, dup := m.parts[name]; dup {
		return fmt.Errorf("state: duplicate component %q", name)
	}
	m.keys = append(m.keys, name)
	m.parts[name] = y
	return nil
}

// Get returns the named sub-state, or nil.
func (m *Map) Get(name string) state.State { return m.parts[name] }

// Keys returns the component names in insertion order.
func (m *Map) Keys() []string { return m.keys }

func (m *Map) Time() float64 { return m.t }

func (m *Map) SetTime(t float64) {
	m.t = t
	for _, k := range m.keys {
		m.parts[k].SetTime(t)
	}
}

// Dtype is complex if any component is complex.
func (m *Map) Dtype() state.Dtype {
	for _, k := range m.keys {
		if m.parts[k].Dtype() == state.Complex {
			return state.Complex
		}
	}
	return state.Real
}

func (m *Map) Writeable() bool { return m.writeable }

// Freeze marks the composite read-only. Children keep their own flags.
func (m *Map) Freeze() { m.writeable = false }

func (m *Map) Copy() state.State {
	c := NewMap()
	c.t = m.t
	for _, k := range m.keys {
		c.keys = append(c.keys, k)
		c.parts[k] = m.parts[k].Copy()
	}
	return c
}

func (m *Map) other(x state.State) (*Map, error) {
	xm, ok := x.(*Map)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a *Map", state.ErrShapeMismatch, x)
	}
	if len(xm.keys) != len(m.keys) {
		return nil, fmt.Errorf("%w: %d vs %d components", state.ErrShapeMismatch, len(m.keys), len(xm.keys))
	}
	for i, k := range m.keys {
		if xm.keys[i] != k {
			return nil, fmt.Errorf("%w: component %q vs %q", state.ErrShapeMismatch, k, xm.keys[i])
		}
	}
	return xm, nil
}

func (m *Map) CopyFrom(src state.State) error {
	if !m.writeable {
		return state.ErrReadOnly
	}
	sm, err := m.other(src)
	if err != nil {
		return err
	}
	for _, k := range m.keys {
		if err := m.parts[k].CopyFrom(sm.parts[k]); err != nil {
			return fmt.Errorf("component %q: %w", k, err)
		}
	}
	m.t = sm.t
	return nil
}

func (m *Map) Axpy(x state.State, a complex128) error {
	if !m.writeable {
		return state.ErrReadOnly
	}
	xm, err := m.other(x)
	if err != nil {
		return err
	}
	for _, k := range m.keys {
		if err := m.parts[k].Axpy(xm.parts[k], a); err != nil {
			return fmt.Errorf("component %q: %w", k, err)
		}
	}
	return nil
}

func (m *Map) Scale(f complex128) error {
	if !m.writeable {
		return state.ErrReadOnly
	}
	for _, k := range m.keys {
		if err := m.parts[k].Scale(f); err != nil {
			return fmt.Errorf("component %q: %w", k, err)
		}
	}
	return nil
}

// Braket sums the component brakets.
func (m *Map) Braket(x state.State) (complex128, error) {
	xm, err := m.other(x)
	if err != nil {
		return 0, err
	}
	var sum complex128
	for _, k := range m.keys {
		b, err := m.parts[k].Braket(xm.parts[k])
		if err != nil {
			return 0, fmt.Errorf("component %q: %w", k, err)
		}
		sum += b
	}
	return sum, nil
}

// ComputeDy evaluates each component's derivative into the matching
// component of dy.
func (m *Map) ComputeDy(dy state.State) (state.State, error) {
	dm, err := m.other(dy)
	if err != nil {
		return nil, err
	}
	for _, k := range m.keys {
		d, err := state.AsDifferentiable(m.parts[k])
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", k, err)
		}
		if _, err := d.ComputeDy(dm.parts[k]); err != nil {
			return nil, fmt.Errorf("component %q: %w", k, err)
		}
	}
	return dm, nil
}

// Normalize normalizes each component.
func (m *Map) Normalize() error {
	if !m.writeable {
		return state.ErrReadOnly
	}
	for _, k := range m.keys {
		n, err := state.AsNormalizer(m.parts[k])
		if err != nil {
			return fmt.Errorf("component %q: %w", k, err)
		}
		if err := n.Normalize(); err != nil {
			return fmt.Errorf("component %q: %w", k, err)
		}
	}
	return nil
}
