// Package model defines the content types shared by the drag-and-drop engine.
//
// Content is represented two ways at once. The page representation is a
// strict tree of blocks rooted at a single page block. The canvas
// representation is a graph of positioned elements owned by a distinguished
// surface block.
//
// # Flavours
//
// Every block carries a Flavour, a closed set of known block types. Placement
// and merge policy is expressed as pure functions over the flavour tag:
//
//	if model.FlavourNote.IsNoteLike() {
//	    // note-level container
//	}
//
// # Bounds
//
// Spatial bounds are stored as "[x,y,w,h]" strings under the xywh prop key,
// matching the serialized form used by canvas elements:
//
//	b, err := model.ParseBound("[0,0,100,50]")
//
// # Elements
//
// Canvas elements are kept in their serialized JSON form. Element exposes
// typed accessors and returns rewritten copies from its setters, so a
// snapshot never shares state with a live document.
package model
