package state

// Capability checks. Evolver constructors call these so that a state missing
// a required method fails fast, before any step is taken.

func AsDifferentiable(y State) (Differentiable, error) {
	d, ok := y.(Differentiable)
	if !ok {
		return nil, &CapabilityError{Capability: "Differentiable", State: y}
	}
	return d, nil
}

func AsSplit(y State) (SplitState, error) {
	s, ok := y.(SplitState)
	if !ok {
		return nil, &CapabilityError{Capability: "SplitState", State: y}
	}
	return s, nil
}

func AsNormalizer(y State) (Normalizer, error) {
	n, ok := y.(Normalizer)
	if !ok {
		return nil, &CapabilityError{Capability: "Normalizer", State: y}
	}
	return n, nil
}

func AsApplier(y State) (Applier, error) {
	a, ok := y.(Applier)
	if !ok {
		return nil, &CapabilityError{Capability: "Applier", State: y}
	}
	return a, nil
}
