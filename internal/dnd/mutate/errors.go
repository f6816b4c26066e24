package mutate

import "errors"

var (
	// ErrTargetNotFound indicates the decision's target block is gone.
	ErrTargetNotFound = errors.New("mutate: target block not found")

	// ErrNoParent indicates a before/after drop relative to the root.
	ErrNoParent = errors.New("mutate: target has no parent")

	// ErrNotAllowed indicates a member that cannot live under the
	// destination.
	ErrNotAllowed = errors.New("mutate: member not allowed at destination")

	// ErrPanic wraps a recovered panic.
	ErrPanic = errors.New("mutate: recovered panic")
)
