package target

import (
	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/schema"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

// Placement is the structural relation of a drop to its target.
type Placement string

// Placements.
const (
	PlacementBefore Placement = "before"
	PlacementAfter  Placement = "after"
	PlacementInside Placement = "inside"
)

// Decision is the outcome of resolving a pointer position.
type Decision struct {
	Placement Placement
	// Target is the block the placement is relative to.
	Target string
	// Indicator is the drop indicator in viewport coordinates.
	Indicator model.Bound
}

// Input is one pointer sample to resolve.
type Input struct {
	// Pointer is the pointer position in viewport coordinates.
	Pointer model.Point
	// Hovered is the block under the pointer.
	Hovered  string
	Snapshot *snapshot.Snapshot
	Mode     snapshot.Mode
	// FromThisEditor is false for drags that started in another editor.
	FromThisEditor bool
}

// Candidate describes a target offered to filters.
type Candidate struct {
	Block    *model.Block
	Snapshot *snapshot.Snapshot
	Mode     snapshot.Mode
}

// Filter vetoes drop targets.
type Filter interface {
	Accept(c Candidate) bool
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(c Candidate) bool

// Accept implements Filter.
func (f FilterFunc) Accept(c Candidate) bool {
	return f(c)
}

// Resolver computes drop decisions.
type Resolver struct {
	doc       store.Doc
	validator schema.Validator
	layout    Layout
	filters   []Filter
	logger    *zap.Logger

	thickness  float64
	nestIndent float64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConfig applies indicator and list settings from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(r *Resolver) {
		if cfg != nil {
			r.thickness = cfg.Indicator.Thickness
			r.nestIndent = cfg.List.NestIndent
		}
	}
}

// WithFilter adds a target filter.
func WithFilter(f Filter) Option {
	return func(r *Resolver) {
		if f != nil {
			r.filters = append(r.filters, f)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a resolver over doc.
func New(doc store.Doc, validator schema.Validator, layout Layout, opts ...Option) *Resolver {
	r := &Resolver{
		doc:        doc,
		validator:  validator,
		layout:     layout,
		logger:     zap.NewNop(),
		thickness:  config.DefaultIndicatorThickness,
		nestIndent: config.DefaultListNestIndent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve computes the decision for in. It returns false when the drop
// should be cleared.
func (r *Resolver) Resolve(in Input) (*Decision, bool) {
	if in.Snapshot.IsEmpty() || !in.FromThisEditor {
		return nil, false
	}
	hovered, ok := r.doc.GetBlock(in.Hovered)
	if !ok || r.rejects(hovered, in) {
		return nil, false
	}
	for _, f := range r.filters {
		if !f.Accept(Candidate{Block: hovered, Snapshot: in.Snapshot, Mode: in.Mode}) {
			r.logger.Debug("drop target filtered", zap.String("target", hovered.ID))
			return nil, false
		}
	}

	rect, ok := r.layout.Rect(hovered.ID)
	if !ok {
		return nil, false
	}
	note, hasNote := store.FindAncestor(r.doc, hovered.ID, func(b *model.Block) bool {
		return b.Flavour.IsNoteLike()
	})
	container := rect
	if hasNote {
		if nr, ok := r.layout.Rect(note.ID); ok {
			container = nr
		}
	}
	if !container.Contains(in.Pointer) {
		return nil, false
	}

	zoom := r.zoom(in.Mode)
	thickness := r.thickness * zoom
	indent := r.nestIndent * zoom
	bottomHalf := in.Pointer.Y >= rect.Y+rect.H/2

	if hovered.Flavour == model.FlavourList && bottomHalf && in.Pointer.X >= rect.X+indent {
		if r.allValidUnder(in.Snapshot, model.FlavourList) {
			return &Decision{
				Placement: PlacementInside,
				Target:    hovered.ID,
				Indicator: edge(rect, rect.Bottom(), thickness).indent(indent),
			}, true
		}
		if hasNote && note.ID != hovered.ID {
			noteRect, _ := r.layout.Rect(note.ID)
			return &Decision{
				Placement: PlacementAfter,
				Target:    note.ID,
				Indicator: edge(noteRect, noteRect.Bottom(), thickness).bound(),
			}, true
		}
	}

	first := in.Snapshot.First()
	if hovered.Flavour.IsNoteLike() && r.validator.SafeValidate(first.Flavour, model.FlavourPage) == nil {
		return &Decision{
			Placement: PlacementInside,
			Target:    hovered.ID,
			Indicator: edge(rect, rect.Bottom(), thickness).bound(),
		}, true
	}
	if bottomHalf {
		return &Decision{
			Placement: PlacementAfter,
			Target:    hovered.ID,
			Indicator: edge(rect, rect.Bottom(), thickness).bound(),
		}, true
	}
	return &Decision{
		Placement: PlacementBefore,
		Target:    hovered.ID,
		Indicator: edge(rect, rect.Y, thickness).bound(),
	}, true
}

// rejects applies the built-in rejection rules.
func (r *Resolver) rejects(hovered *model.Block, in Input) bool {
	if hovered.IsRoot() || hovered.Flavour == model.FlavourSurface {
		return true
	}
	if _, inDatabase := store.FindAncestor(r.doc, hovered.ID, func(b *model.Block) bool {
		return b.Flavour.IsDatabase()
	}); inDatabase {
		return true
	}
	if in.Snapshot.DocID != r.doc.ID() {
		return false
	}
	// A block cannot be dropped into its own subtree.
	for _, id := range in.Snapshot.IDs() {
		if id != hovered.ID && store.IsAncestor(r.doc, id, hovered.ID) {
			return true
		}
	}
	return false
}

func (r *Resolver) allValidUnder(s *snapshot.Snapshot, parent model.Flavour) bool {
	for _, b := range s.Blocks {
		if r.validator.SafeValidate(b.Flavour, parent) != nil {
			return false
		}
	}
	return true
}

func (r *Resolver) zoom(mode snapshot.Mode) float64 {
	if mode != snapshot.ModeCanvas || r.layout == nil {
		return 1
	}
	if z := r.layout.Zoom(); z > 0 {
		return z
	}
	return 1
}

// indicator is a horizontal drop line centred on an edge.
type indicator model.Bound

func edge(rect model.Bound, y, thickness float64) indicator {
	return indicator{X: rect.X, Y: y - thickness/2, W: rect.W, H: thickness}
}

func (i indicator) indent(by float64) model.Bound {
	if by > i.W {
		by = i.W
	}
	return model.Bound{X: i.X + by, Y: i.Y, W: i.W - by, H: i.H}
}

func (i indicator) bound() model.Bound {
	return model.Bound(i)
}
