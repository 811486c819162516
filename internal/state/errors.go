package state

import (
	"errors"
	"fmt"
)

// Contract violations surfaced by concrete states.
var (
	// ErrReadOnly indicates an in-place mutation on a non-writeable state.
	ErrReadOnly = errors.New("state: not writeable")

	// ErrShapeMismatch indicates two states of incompatible shape in a
	// linear-combination or derivative-write operation.
	ErrShapeMismatch = errors.New("state: shape mismatch")

	// ErrDtypeMismatch indicates an operation that would silently coerce
	// between real and complex payloads.
	ErrDtypeMismatch = errors.New("state: dtype mismatch")
)

// CapabilityError reports a state that does not implement a capability
// required by the chosen evolver. It is raised at evolver construction,
// never at step time.
type CapabilityError struct {
	Capability string
	State      State
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("state: %T does not implement the %s capability", e.State, e.Capability)
}
