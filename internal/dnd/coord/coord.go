// Package coord rewrites the spatial bounds of detached snapshots.
//
// Two rewrites are supported. The relative rewrite moves the top-left corner
// of the snapshot's aggregate bounding box to the destination point and keeps
// the internal layout. The absolute rewrite places every top-level member
// exactly at the destination point. Card flavours are resized to their
// canonical card size in both cases.
package coord

import (
	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/snapshot"
)

// Options controls a rewrite.
type Options struct {
	// IgnoreOriginalPosition collapses every top-level member onto the
	// destination point instead of preserving relative layout.
	IgnoreOriginalPosition bool
}

// Transformer rewrites snapshot bounds.
type Transformer struct {
	cards map[model.Flavour]config.CardSize
}

// New creates a transformer using the card sizes in cfg.
// A nil cfg uses the defaults.
func New(cfg *config.Config) *Transformer {
	if cfg == nil {
		cfg = config.Default()
	}
	t := &Transformer{cards: make(map[model.Flavour]config.CardSize)}
	for _, f := range model.Flavours() {
		if size, ok := cfg.CardSize(f); ok {
			t.cards[f] = size
		}
	}
	return t
}

// CardBound returns the canonical bound of a card flavour placed at p.
func (t *Transformer) CardBound(f model.Flavour, at model.Point) (model.Bound, bool) {
	size, ok := t.cards[f]
	if !ok {
		return model.Bound{}, false
	}
	return model.Bound{X: at.X, Y: at.Y, W: size.Width, H: size.Height}, true
}

// Rewrite returns a copy of snap whose bounds are moved to dest.
// snap itself is never modified. A snapshot without any bound is returned
// as an unchanged copy.
func (t *Transformer) Rewrite(snap *snapshot.Snapshot, dest model.Point, opts Options) *snapshot.Snapshot {
	out := snap.Clone()
	if out.IsEmpty() {
		return out
	}
	box, ok := model.UnionAll(out.Bounds())
	if !ok {
		return out
	}

	if opts.IgnoreOriginalPosition {
		t.absolute(out, dest)
	} else {
		t.relative(out, dest.Sub(box.Origin()))
	}
	return out
}

// relative translates every bound, nested ones included, by delta.
func (t *Transformer) relative(s *snapshot.Snapshot, delta model.Point) {
	s.Walk(func(b *snapshot.BlockSnapshot, _ int) bool {
		if bound, ok := b.Props.Bound(); ok {
			t.setBound(b, bound.Translate(delta))
		}
		for i, e := range b.Elements {
			if bound, ok := e.Bound(); ok {
				b.Elements[i] = withBound(e, bound.Translate(delta))
			}
		}
		return true
	})
}

// absolute moves top-level members onto p. The surface unit has no bound of
// its own; its direct blocks and its elements that no group owns are its
// top-level members.
func (t *Transformer) absolute(s *snapshot.Snapshot, p model.Point) {
	for _, b := range s.Blocks {
		if b.Flavour != model.FlavourSurface {
			if bound, ok := b.Props.Bound(); ok {
				t.setBound(b, bound.MoveTo(p))
			}
			continue
		}
		for _, c := range b.Children {
			if bound, ok := c.Props.Bound(); ok {
				t.setBound(c, bound.MoveTo(p))
			}
		}
		owned := ownedElements(b)
		for i, e := range b.Elements {
			if owned[e.ID()] {
				continue
			}
			if bound, ok := e.Bound(); ok {
				b.Elements[i] = withBound(e, bound.MoveTo(p))
			}
		}
	}
}

func (t *Transformer) setBound(b *snapshot.BlockSnapshot, bound model.Bound) {
	if size, ok := t.cards[b.Flavour]; ok {
		bound = bound.Resize(size.Width, size.Height)
	}
	b.Props.SetBound(bound)
}

// ownedElements returns the ids of elements claimed by a group-like element
// or frame of the surface unit.
func ownedElements(surface *snapshot.BlockSnapshot) map[string]bool {
	owned := make(map[string]bool)
	for _, e := range surface.Elements {
		if e.Type().IsGroupLike() {
			for _, id := range e.Children() {
				owned[id] = true
			}
		}
	}
	for _, c := range surface.Children {
		if c.Flavour.IsGroupLike() {
			for _, id := range c.Props.IDList(model.PropChildElementIDs) {
				owned[id] = true
			}
		}
	}
	return owned
}

func withBound(e model.Element, b model.Bound) model.Element {
	out, err := e.WithBound(b)
	if err != nil {
		// The element was parsed from valid JSON; keep it unchanged.
		return e
	}
	return out
}
