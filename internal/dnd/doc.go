// Package dnd groups the structural drag-and-drop engine.
//
// The engine is split leaf-first into sub-packages:
//
//   - coord: rewrites the spatial bounds of a snapshot to a drop point
//   - extract: turns a live selection into a detached snapshot
//   - resolve: applies group members before the groups that reference them
//   - target: computes where a drop lands relative to a hovered block
//   - mutate: applies a snapshot to the destination document
//   - session: owns the pointer gesture lifecycle
//
// # Data Flow
//
// Pointer-down records a pending gesture. Once the pointer travels past the
// activation threshold the session captures a snapshot through extract and
// holds it until the gesture ends. Every pointer-move runs target, which is
// synchronous and never touches the store. Pointer-up hands the snapshot and
// the last decision to mutate, which routes cross-document and cross-mode
// drops through coord and resolve.
package dnd
