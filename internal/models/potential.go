package models

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/timeode/internal/state"
)

// GridPotential is a position-space potential sampled on the same grid as a
// [Wave]. It is the decoupled potentials value of the split-operator
// contract: much smaller to copy and combine than a full state.
type GridPotential struct {
	v []float64
}

var _ state.Potential = (*GridPotential)(nil)

func (p *GridPotential) Copy() state.Potential {
	c := &GridPotential{v: make([]float64, len(p.v))}
	copy(c.v, p.v)
	return c
}

func (p *GridPotential) Axpy(x state.Potential, a float64) error {
	xp, ok := x.(*GridPotential)
	if !ok {
		return fmt.Errorf("%w: %T is not a *GridPotential", state.ErrShapeMismatch, x)
	}
	if len(xp.v) != len(p.v) {
		return fmt.Errorf("%w: %d vs %d", state.ErrShapeMismatch, len(p.v), len(xp.v))
	}
	floats.AddScaled(p.v, a, xp.v)
	return nil
}

func (p *GridPotential) Scale(f float64) {
	floats.Scale(f, p.v)
}

// Values returns the sampled potential.
func (p *GridPotential) Values() []float64 { return p.v }
