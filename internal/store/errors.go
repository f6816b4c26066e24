package store

import "errors"

// Store errors.
var (
	// ErrInvalidID indicates an empty block or element id.
	ErrInvalidID = errors.New("invalid id")
	// ErrBlockNotFound indicates a block was not found in the document.
	ErrBlockNotFound = errors.New("block not found")
	// ErrBlockExists indicates a block id is already in use.
	ErrBlockExists = errors.New("block already exists")
	// ErrElementNotFound indicates a canvas element was not found.
	ErrElementNotFound = errors.New("element not found")
	// ErrElementExists indicates an element id is already in use.
	ErrElementExists = errors.New("element already exists")
	// ErrNoSurface indicates the document has no surface block.
	ErrNoSurface = errors.New("document has no surface")
	// ErrRootImmutable indicates an attempt to delete or move the root.
	ErrRootImmutable = errors.New("root block cannot be moved or deleted")
	// ErrCycleDetected indicates a move would place a block inside itself.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrInvalidTree indicates a broken parent/child relationship.
	ErrInvalidTree = errors.New("invalid tree")
)
