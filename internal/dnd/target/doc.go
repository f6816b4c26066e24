// Package target decides where a drop lands.
//
// Resolve runs on every pointer-move tick, so it is synchronous and only
// reads the document and the layout. The result is a Decision holding the
// placement relative to a target block and the indicator rectangle in
// viewport coordinates.
//
// # Placement Rules
//
// A drop is rejected over the surface, over database blocks, for empty
// snapshots, for drags that do not come from this editor, and when the
// pointer leaves the nearest note container. Hovering the trailing edge of a
// list item nests the dragged items inside it when they are all valid list
// children; otherwise the drop goes after the enclosing note. A note accepts
// note-level content inside it. Everything else lands before or after the
// hovered block depending on which half the pointer is in.
//
// # Filters
//
// Filters registered with WithFilter can veto a target. They run after the
// built-in rejection rules and before placement.
package target
