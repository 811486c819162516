package state

import "math"

// Derived operations. Everything here is default-implementable from the
// minimal State interface; concrete states get them for free through these
// helpers instead of a mixin hierarchy.

// Add returns x + y as a fresh state.
func Add(x, y State) (State, error) {
	r := x.Copy()
	if err := r.Axpy(y, 1); err != nil {
		return nil, err
	}
	return r, nil
}

// Sub returns x - y as a fresh state.
func Sub(x, y State) (State, error) {
	r := x.Copy()
	if err := r.Axpy(y, -1); err != nil {
		return nil, err
	}
	return r, nil
}

// Neg returns -x as a fresh state.
func Neg(x State) (State, error) {
	return Mul(x, -1)
}

// Mul returns f*x as a fresh state.
func Mul(x State, f complex128) (State, error) {
	r := x.Copy()
	if err := r.Scale(f); err != nil {
		return nil, err
	}
	return r, nil
}

// Div returns x/f as a fresh state.
func Div(x State, f complex128) (State, error) {
	return Mul(x, 1/f)
}

// Empty returns a writeable state of x's shape with unspecified payload,
// suitable as a derivative or scratch target.
func Empty(x State) State {
	return x.Copy()
}

// Zeros returns a zero-filled writeable state of x's shape.
func Zeros(x State) (State, error) {
	r := x.Copy()
	if err := r.Scale(0); err != nil {
		return nil, err
	}
	return r, nil
}

// Norm returns sqrt(<x|x>).
func Norm(x State) (float64, error) {
	b, err := x.Braket(x)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(real(b)), nil
}

// Combine writes dst = base + sum coeffs[i]*terms[i]. When dst implements
// [Applier] the whole combination runs as one fused elementwise pass;
// otherwise it falls back to a CopyFrom followed by an Axpy chain. The two
// paths are numerically equivalent up to float associativity.
//
// len(coeffs) must equal len(terms). dst may alias base but not any term.
func Combine(dst, base State, coeffs []complex128, terms ...State) error {
	if a, ok := dst.(Applier); ok {
		k := func(out []complex128, args ...[]complex128) {
			for i := range out {
				acc := args[0][i]
				for j := range coeffs {
					acc += coeffs[j] * args[j+1][i]
				}
				out[i] = acc
			}
		}
		args := make([]State, 0, len(terms)+1)
		args = append(args, base)
		args = append(args, terms...)
		return a.Apply(k, args...)
	}
	if dst != base {
		if err := dst.CopyFrom(base); err != nil {
			return err
		}
	}
	for i := range terms {
		if err := dst.Axpy(terms[i], coeffs[i]); err != nil {
			return err
		}
	}
	return nil
}
