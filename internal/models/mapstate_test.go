package models

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/timeode/internal/state"
)

func newPair(t *testing.T) *Map {
	t.Helper()
	m := NewMap()
	if err := m.Insert("a", NewVector([]float64{1, 2}, decay)); err != nil {
		t.Fatal(err)
	}
	if err := m.Insert("b", NewVector([]float64{3, 4, 5}, decay)); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMapInsertDuplicate(t *testing.T) {
	m := newPair(t)
	if err := m.Insert("a", NewVector([]float64{0}, decay)); err == nil {
		t.Error("expected duplicate insert to fail")
	}
}

func TestMapDelegation(t *testing.T) {
	m := newPair(t)
	x := m.Copy().(*Map)

	if err := m.Axpy(x, 1); err != nil {
		t.Fatal(err)
	}
	a := m.Get("a").(*Vector)
	if a.Data()[0] != 2 || a.Data()[1] != 4 {
		t.Errorf("axpy did not reach component a: %v", a.Data())
	}

	if err := m.Scale(0.5); err != nil {
		t.Fatal(err)
	}
	b := m.Get("b").(*Vector)
	if b.Data()[2] != 5 {
		t.Errorf("scale did not reach component b: %v", b.Data())
	}
}

func TestMapBraketSums(t *testing.T) {
	m := newPair(t)
	b, err := m.Braket(m)
	if err != nil {
		t.Fatal(err)
	}
	// 1+4 + 9+16+25
	if math.Abs(real(b)-55) > 1e-12 {
		t.Errorf("braket sum wrong: %v", b)
	}
}

func TestMapSetTimePropagates(t *testing.T) {
	m := newPair(t)
	m.SetTime(2.5)
	if m.Get("a").Time() != 2.5 || m.Get("b").Time() != 2.5 {
		t.Error("SetTime did not propagate to components")
	}
}

func TestMapComputeDy(t *testing.T) {
	m := newPair(t)
	dy := state.Empty(m)
	if _, err := m.ComputeDy(dy); err != nil {
		t.Fatal(err)
	}
	da := dy.(*Map).Get("a").(*Vector)
	if da.Data()[0] != -1 || da.Data()[1] != -2 {
		t.Errorf("component derivative wrong: %v", da.Data())
	}
}

// A Map whose child cannot differentiate reports a capability error naming
// the child.
func TestMapMissingChildCapability(t *testing.T) {
	m := NewMap()
	if err := m.Insert("w", bareOnly()); err != nil {
		t.Fatal(err)
	}
	dy := state.Empty(m)
	_, err := m.ComputeDy(dy)
	if err == nil {
		t.Fatal("expected capability error from non-differentiable child")
	}
	var capErr *state.CapabilityError
	if !errors.As(err, &capErr) {
		t.Errorf("expected CapabilityError, got %v", err)
	}
}

// bare is a minimal-contract-only state used to exercise capability errors.
type bare struct{ v *Vector }

func bareOnly() state.State { return &bare{v: NewVector([]float64{1}, decay)} }

func (b *bare) Time() float64                { return b.v.Time() }
func (b *bare) SetTime(t float64)            { b.v.SetTime(t) }
func (b *bare) Dtype() state.Dtype           { return b.v.Dtype() }
func (b *bare) Writeable() bool              { return b.v.Writeable() }
func (b *bare) Copy() state.State            { return &bare{v: b.v.Copy().(*Vector)} }
func (b *bare) CopyFrom(s state.State) error { return b.v.CopyFrom(s.(*bare).v) }
func (b *bare) Axpy(x state.State, a complex128) error {
	return b.v.Axpy(x.(*bare).v, a)
}
func (b *bare) Scale(f complex128) error { return b.v.Scale(f) }
func (b *bare) Braket(x state.State) (complex128, error) {
	return b.v.Braket(x.(*bare).v)
}
