// Package extract converts live selections into detached snapshots.
//
// # Page Mode
//
// FromBlocks expands a text-range selection to the blocks it covers, drops
// blocks whose ancestor is also selected, and pulls in the siblings hidden
// under a collapsed heading. Units are returned in document order.
//
// # Canvas Mode
//
// FromElement starts at one selected canvas element (or canvas block such as
// a frame or a note) and collects everything reachable through group
// membership. Collected elements and surface blocks share one surface unit;
// every other collected block becomes a unit of its own.
//
// Both entry points are pure reads. A selection that no longer resolves
// yields no snapshot, which callers treat as a no-op drag.
package extract

import (
	"slices"

	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/schema"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

// TextRange is a text selection spanning from one block to another.
type TextRange struct {
	From string
	To   string
}

// Selection is a page-mode selection.
type Selection struct {
	Blocks []string
	Text   *TextRange
}

// Extractor reads selections out of a document.
type Extractor struct {
	doc       store.Doc
	validator schema.Validator
	logger    *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithValidator drops units that no longer validate under their parent.
func WithValidator(v schema.Validator) Option {
	return func(x *Extractor) {
		x.validator = v
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(x *Extractor) {
		if l != nil {
			x.logger = l
		}
	}
}

// New creates an extractor reading from doc.
func New(doc store.Doc, opts ...Option) *Extractor {
	x := &Extractor{doc: doc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// FromBlocks captures a page-mode selection.
func (x *Extractor) FromBlocks(sel Selection) (*snapshot.Snapshot, bool) {
	order := x.documentOrder()

	ids := make([]string, 0, len(sel.Blocks))
	for _, id := range sel.Blocks {
		if _, ok := order[id]; ok {
			ids = append(ids, id)
		}
	}
	if sel.Text != nil {
		ids = append(ids, x.coverRange(*sel.Text, order)...)
	}
	ids = x.excludeSubtrees(ids)
	ids = x.expandCollapsed(ids)
	ids = x.excludeSubtrees(ids)
	slices.SortFunc(ids, func(a, b string) int { return order[a] - order[b] })

	snap := &snapshot.Snapshot{DocID: x.doc.ID(), Mode: snapshot.ModePage}
	for _, id := range ids {
		unit, ok := snapshot.Capture(x.doc, id)
		if !ok || !x.valid(id, unit.Flavour) {
			continue
		}
		snap.Blocks = append(snap.Blocks, unit)
	}
	if snap.IsEmpty() {
		return nil, false
	}
	return snap, true
}

// FromElement captures a canvas selection rooted at id.
func (x *Extractor) FromElement(id string) (*snapshot.Snapshot, bool) {
	surfaceID, hasSurface := x.doc.Surface()
	if !x.exists(id) {
		return nil, false
	}

	snap := &snapshot.Snapshot{DocID: x.doc.ID(), Mode: snapshot.ModeCanvas}
	var surface *snapshot.BlockSnapshot
	ensureSurface := func() *snapshot.BlockSnapshot {
		if surface == nil {
			props := model.Props{}
			if sb, ok := x.doc.GetBlock(surfaceID); ok {
				props = sb.Props.Clone()
			}
			surface = &snapshot.BlockSnapshot{ID: surfaceID, Flavour: model.FlavourSurface, Props: props}
			snap.Blocks = append(snap.Blocks, surface)
		}
		return surface
	}

	visited := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		var members []string
		if e, ok := x.doc.GetElement(cur); ok {
			s := ensureSurface()
			s.Elements = append(s.Elements, e)
			members = e.Children()
		} else if b, ok := x.doc.GetBlock(cur); ok {
			if b.IsRoot() || b.Flavour == model.FlavourSurface {
				continue
			}
			unit, _ := snapshot.Capture(x.doc, cur)
			if hasSurface && b.Parent == surfaceID {
				s := ensureSurface()
				s.Children = append(s.Children, unit)
			} else {
				snap.Blocks = append(snap.Blocks, unit)
			}
			if b.Flavour.IsGroupLike() {
				members = b.Props.IDList(model.PropChildElementIDs)
			}
		} else {
			x.logger.Debug("skipping missing group member", zap.String("id", cur))
			continue
		}

		for i := len(members) - 1; i >= 0; i-- {
			if !visited[members[i]] {
				stack = append(stack, members[i])
			}
		}
	}

	if snap.IsEmpty() {
		return nil, false
	}
	return snap, true
}

func (x *Extractor) exists(id string) bool {
	if _, ok := x.doc.GetElement(id); ok {
		return true
	}
	return x.doc.HasBlock(id)
}

func (x *Extractor) valid(id string, f model.Flavour) bool {
	if x.validator == nil {
		return true
	}
	parent, ok := x.doc.GetParent(id)
	if !ok {
		return false
	}
	pb, ok := x.doc.GetBlock(parent)
	if !ok {
		return false
	}
	if err := x.validator.SafeValidate(f, pb.Flavour); err != nil {
		x.logger.Debug("dropping invalid selection unit", zap.String("id", id), zap.Error(err))
		return false
	}
	return true
}

// documentOrder returns the pre-order position of every non-root block.
func (x *Extractor) documentOrder() map[string]int {
	order := make(map[string]int)
	root := x.doc.Root()
	store.Walk(x.doc, root, func(b *model.Block) bool {
		if b.ID != root {
			order[b.ID] = len(order)
		}
		return true
	})
	return order
}

// coverRange returns the content blocks between r.From and r.To inclusive,
// in document order. Container blocks crossed by the range are skipped so a
// range spanning two notes does not select either note whole.
func (x *Extractor) coverRange(r TextRange, order map[string]int) []string {
	from, ok1 := order[r.From]
	to, ok2 := order[r.To]
	if !ok1 || !ok2 {
		return nil
	}
	if from > to {
		from, to = to, from
	}
	var out []string
	for id, pos := range order {
		if pos < from || pos > to {
			continue
		}
		b, ok := x.doc.GetBlock(id)
		if !ok {
			continue
		}
		switch b.Flavour.Role() {
		case model.RoleRoot, model.RoleSurface, model.RoleNote:
			continue
		}
		out = append(out, id)
	}
	slices.SortFunc(out, func(a, b string) int { return order[a] - order[b] })
	return out
}

// excludeSubtrees removes duplicates and blocks that have a selected
// ancestor.
func (x *Extractor) excludeSubtrees(ids []string) []string {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if x.hasSelectedAncestor(id, selected) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (x *Extractor) hasSelectedAncestor(id string, selected map[string]bool) bool {
	seen := make(map[string]bool)
	for cur, ok := x.doc.GetParent(id); ok && !seen[cur]; cur, ok = x.doc.GetParent(cur) {
		if selected[cur] {
			return true
		}
		seen[cur] = true
	}
	return false
}

// expandCollapsed adds the siblings hidden under collapsed headings: every
// following sibling up to the next heading of the same or a higher level.
func (x *Extractor) expandCollapsed(ids []string) []string {
	out := append([]string(nil), ids...)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range ids {
		b, ok := x.doc.GetBlock(id)
		if !ok {
			continue
		}
		level := model.HeadingLevel(b)
		if level == 0 || !b.Props.Bool(model.PropCollapsed) {
			continue
		}
		parent, ok := x.doc.GetBlock(b.Parent)
		if !ok {
			continue
		}
		pos := slices.Index(parent.Children, id)
		for _, sid := range parent.Children[pos+1:] {
			sib, ok := x.doc.GetBlock(sid)
			if !ok {
				continue
			}
			if l := model.HeadingLevel(sib); l > 0 && l <= level {
				break
			}
			if !seen[sid] {
				seen[sid] = true
				out = append(out, sid)
			}
		}
	}
	return out
}
