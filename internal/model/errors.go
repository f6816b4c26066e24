package model

import "errors"

// Model errors.
var (
	// ErrUnknownFlavour indicates a flavour string outside the known set.
	ErrUnknownFlavour = errors.New("unknown block flavour")
	// ErrUnknownElementType indicates an element type outside the known set.
	ErrUnknownElementType = errors.New("unknown element type")
	// ErrInvalidBound indicates a malformed xywh string.
	ErrInvalidBound = errors.New("invalid bound")
	// ErrInvalidElement indicates malformed element JSON or a missing id.
	ErrInvalidElement = errors.New("invalid element")
)
