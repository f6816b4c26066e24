// Package store provides the document mutation API consumed by the
// drag-and-drop engine and an in-memory implementation of it.
//
// A document is a tree of blocks rooted at a page block. One child of the
// root may be a surface block; the surface owns the canvas elements of the
// document, which are stored in their serialized JSON form.
package store

import (
	"context"

	"github.com/dshills/blockdrop/internal/model"
)

// Doc is the document mutation API.
//
// Reads return copies; mutating the returned values never affects the
// document.
type Doc interface {
	// ID returns the document identifier.
	ID() string
	// Root returns the id of the root block.
	Root() string

	// Block operations
	AddBlock(ctx context.Context, flavour model.Flavour, props model.Props, parent string, index int) (string, error)
	UpdateBlock(ctx context.Context, id string, patch model.Props) error
	DeleteBlock(ctx context.Context, id string) error
	MoveBlocks(ctx context.Context, ids []string, parent string, index int) error
	GetParent(id string) (string, bool)
	GetBlock(id string) (*model.Block, bool)
	HasBlock(id string) bool

	// Surface operations
	Surface() (string, bool)
	GetElement(id string) (model.Element, bool)
	AddElement(ctx context.Context, e model.Element) (string, error)
	UpdateElement(ctx context.Context, e model.Element) error
	DeleteElement(ctx context.Context, id string) error
	ElementBounds() (model.Bound, bool)
}

// IndexOf returns the position of id among its parent's children, or -1.
func IndexOf(d Doc, id string) int {
	parent, ok := d.GetParent(id)
	if !ok {
		return -1
	}
	p, ok := d.GetBlock(parent)
	if !ok {
		return -1
	}
	for i, c := range p.Children {
		if c == id {
			return i
		}
	}
	return -1
}

// IsAncestor reports whether ancestor is id or one of its ancestors.
func IsAncestor(d Doc, ancestor, id string) bool {
	seen := make(map[string]bool)
	for cur := id; cur != ""; {
		if cur == ancestor {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		parent, ok := d.GetParent(cur)
		if !ok {
			return false
		}
		cur = parent
	}
	return false
}

// FindAncestor walks up from id (inclusive) and returns the first block
// matching pred.
func FindAncestor(d Doc, id string, pred func(*model.Block) bool) (*model.Block, bool) {
	seen := make(map[string]bool)
	for cur := id; cur != "" && !seen[cur]; {
		seen[cur] = true
		b, ok := d.GetBlock(cur)
		if !ok {
			return nil, false
		}
		if pred(b) {
			return b, true
		}
		cur = b.Parent
	}
	return nil, false
}

// Walk visits id and its descendants in pre-order.
// Returning false from fn skips the block's children.
func Walk(d Doc, id string, fn func(*model.Block) bool) {
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b, ok := d.GetBlock(cur)
		if !ok {
			continue
		}
		if !fn(b) {
			continue
		}
		for i := len(b.Children) - 1; i >= 0; i-- {
			stack = append(stack, b.Children[i])
		}
	}
}
