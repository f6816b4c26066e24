// Package resolve applies snapshot members in dependency order.
//
// A snapshot may hold group-like containers: canvas groups list their member
// elements in children, frames list theirs in childElementIds. A container
// can only be created once every member it references exists, so members are
// applied strictly before their container and the new identifiers are
// recorded in a RemapTable used to rewrite the container's references.
//
// # Planning
//
// Plan builds an arena of members keyed by id and an index-based dependency
// map, then orders the arena with an explicit stack. A member claimed by more
// than one container belongs to the first claimant in traversal order: block
// units in snapshot order, then surface blocks, then surface elements.
// Connector endpoints add ordering edges but never ownership. Ownership
// cycles are reported as ErrCycleDetected before anything is applied.
//
// # Applying
//
// Resolve walks the plan sequentially and hands one member at a time to the
// caller's ApplyFunc; the resolver never touches a document itself. A failed
// apply stops the walk. Members applied before the failure stay applied and
// the partial RemapTable is returned together with the error.
package resolve
