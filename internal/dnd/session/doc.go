// Package session owns the lifecycle of one pointer drag gesture.
//
// # States
//
//	Idle → Dragging → Applied | Cancelled → Idle
//
// PointerDown records a pending gesture. The first PointerMove that travels
// past the activation threshold captures the snapshot, dims the captured
// content and locks the selection. While dragging, every PointerMove
// re-resolves the drop decision and redraws the indicator only when the
// decision changed. PointerUp applies the drop through the mutator, or
// cancels when there is nowhere to drop. Cleanup (restore opacity, clear the
// indicator, unlock the selection) runs on every exit path, then the
// controller is Idle again.
//
// # Concurrency
//
// Only one gesture exists at a time. A PointerDown during a drag is ignored.
// Calls are serialized with a mutex and the controller starts no goroutines;
// PointerMove never touches the store.
package session
