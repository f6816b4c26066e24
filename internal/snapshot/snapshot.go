// Package snapshot holds detached, serializable copies of selected content.
//
// A Snapshot never references live document state. It is captured once at
// the start of a drag gesture, never mutated while the gesture is running,
// and discarded at drop or cancel. Transformations such as coordinate
// rewrites always work on a Clone.
package snapshot

import (
	"github.com/dshills/blockdrop/internal/model"
)

// Mode is the editor representation a snapshot was captured from.
type Mode string

// Editor modes.
const (
	ModePage   Mode = "page"
	ModeCanvas Mode = "canvas"
)

// Snapshot is an ordered sequence of block units.
type Snapshot struct {
	DocID  string           `json:"docId"`
	Mode   Mode             `json:"mode"`
	Blocks []*BlockSnapshot `json:"blocks"`
}

// BlockSnapshot is a detached block and its subtree. Only the surface unit
// carries Elements.
type BlockSnapshot struct {
	ID       string           `json:"id"`
	Flavour  model.Flavour    `json:"flavour"`
	Props    model.Props      `json:"props,omitempty"`
	Children []*BlockSnapshot `json:"children,omitempty"`
	Elements []model.Element  `json:"elements,omitempty"`
}

// IsEmpty reports whether the snapshot holds no units.
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.Blocks) == 0
}

// First returns the first unit or nil.
func (s *Snapshot) First() *BlockSnapshot {
	if s.IsEmpty() {
		return nil
	}
	return s.Blocks[0]
}

// Last returns the last unit or nil.
func (s *Snapshot) Last() *BlockSnapshot {
	if s.IsEmpty() {
		return nil
	}
	return s.Blocks[len(s.Blocks)-1]
}

// IDs returns the ids of the top-level units in order.
func (s *Snapshot) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Blocks))
	for i, b := range s.Blocks {
		out[i] = b.ID
	}
	return out
}

// Surface returns the surface unit, if any.
func (s *Snapshot) Surface() (*BlockSnapshot, bool) {
	if s == nil {
		return nil, false
	}
	for _, b := range s.Blocks {
		if b.Flavour == model.FlavourSurface {
			return b, true
		}
	}
	return nil, false
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{DocID: s.DocID, Mode: s.Mode, Blocks: make([]*BlockSnapshot, len(s.Blocks))}
	for i, b := range s.Blocks {
		out.Blocks[i] = b.Clone()
	}
	return out
}

// Clone returns a deep copy of the block and its subtree.
func (b *BlockSnapshot) Clone() *BlockSnapshot {
	if b == nil {
		return nil
	}
	out := &BlockSnapshot{
		ID:      b.ID,
		Flavour: b.Flavour,
		Props:   b.Props.Clone(),
	}
	if len(b.Children) > 0 {
		out.Children = make([]*BlockSnapshot, len(b.Children))
		for i, c := range b.Children {
			out.Children[i] = c.Clone()
		}
	}
	if len(b.Elements) > 0 {
		// Elements are immutable values.
		out.Elements = append([]model.Element(nil), b.Elements...)
	}
	return out
}

// Element returns the element with the given id.
func (b *BlockSnapshot) Element(id string) (model.Element, bool) {
	for _, e := range b.Elements {
		if e.ID() == id {
			return e, true
		}
	}
	return model.Element{}, false
}

// Walk visits every block in pre-order. Returning false skips children.
func (s *Snapshot) Walk(fn func(b *BlockSnapshot, depth int) bool) {
	if s == nil {
		return
	}
	type item struct {
		b     *BlockSnapshot
		depth int
	}
	stack := make([]item, 0, len(s.Blocks))
	for i := len(s.Blocks) - 1; i >= 0; i-- {
		stack = append(stack, item{s.Blocks[i], 0})
	}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur.b, cur.depth) {
			continue
		}
		for i := len(cur.b.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{cur.b.Children[i], cur.depth + 1})
		}
	}
}

// Bounds returns every spatial bound in the snapshot: block bounds in
// pre-order followed by the surface elements' bounds.
func (s *Snapshot) Bounds() []model.Bound {
	var out []model.Bound
	var elems []model.Element
	s.Walk(func(b *BlockSnapshot, _ int) bool {
		if bound, ok := b.Props.Bound(); ok {
			out = append(out, bound)
		}
		elems = append(elems, b.Elements...)
		return true
	})
	for _, e := range elems {
		if bound, ok := e.Bound(); ok {
			out = append(out, bound)
		}
	}
	return out
}
