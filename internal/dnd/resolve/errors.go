package resolve

import "errors"

var (
	// ErrCycleDetected indicates containers that own each other.
	ErrCycleDetected = errors.New("resolve: container cycle detected")

	// ErrNilApply indicates Resolve was called without an apply function.
	ErrNilApply = errors.New("resolve: nil apply function")
)
