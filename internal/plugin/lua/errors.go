package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrFunctionNotFound is returned when a called global is missing.
	ErrFunctionNotFound = errors.New("lua function not found")

	// ErrNotFunction is returned when a called global is not a function.
	ErrNotFunction = errors.New("lua global is not a function")
)
