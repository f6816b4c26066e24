// Package mutate applies drag-and-drop snapshots to documents.
//
// The Mutator never returns an error or panics past its boundary. Every
// outcome is a Result: applied with the new identifiers, or not applied with
// a Reason. Store failures are logged and reported as ReasonFailed so a
// failed drop leaves the gesture free to clean up.
//
// # Drops On Blocks
//
// A page selection dropped within its own document is moved in place and
// keeps its identifiers. Dropping content exactly where it already sits is a
// no-op, and dropping a note inside another note merges the children into
// the target and deletes the emptied shell.
//
// Content from another document, or canvas content, is imported with new
// identifiers in dependency order when every unit is valid under the
// destination parent. Otherwise a single placeholder card is created: a
// surface reference to the largest spatial member, or a linked document
// when there is none.
//
// # Drops On The Canvas
//
// Canvas elements and surface blocks are merged into the destination
// surface, note-level blocks become root children, and anything else is
// wrapped in a new note at the drop point.
package mutate
