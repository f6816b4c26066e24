package mutate

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/dnd/coord"
	"github.com/dshills/blockdrop/internal/dnd/resolve"
	"github.com/dshills/blockdrop/internal/dnd/target"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/schema"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

// Reason explains a drop that was not applied.
type Reason string

// Reasons.
const (
	ReasonNone     Reason = ""
	ReasonEmpty    Reason = "empty"
	ReasonNoop     Reason = "no-op"
	ReasonRejected Reason = "rejected"
	ReasonFailed   Reason = "failed"
)

// Result is the outcome of a drop.
type Result struct {
	Applied bool
	// IDs are the live ids of the applied top-level units. After a partial
	// failure they list what was applied before the failure.
	IDs    []string
	Reason Reason
	Err    error
}

// Drop is a drop onto a block.
type Drop struct {
	// Source is the document the snapshot was captured from. It may be nil
	// when the origin is not available.
	Source   store.Doc
	Dest     store.Doc
	Snapshot *snapshot.Snapshot
	Decision target.Decision
	// Point is the drop position in model coordinates.
	Point model.Point
}

// CanvasDrop is a drop onto the canvas root.
type CanvasDrop struct {
	Source   store.Doc
	Dest     store.Doc
	Snapshot *snapshot.Snapshot
	// Point is the drop position in model coordinates.
	Point model.Point
}

// Mutator applies drops.
type Mutator struct {
	validator   schema.Validator
	transformer *coord.Transformer
	resolver    *resolve.Resolver
	note        config.NoteConfig
	logger      *zap.Logger
}

// Option configures a Mutator.
type Option func(*Mutator)

// WithConfig applies card and note sizes from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(m *Mutator) {
		if cfg != nil {
			m.transformer = coord.New(cfg)
			m.note = cfg.Note
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mutator) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a mutator validating placements with validator.
func New(validator schema.Validator, opts ...Option) *Mutator {
	m := &Mutator{
		validator:   validator,
		transformer: coord.New(nil),
		note:        config.Default().Note,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.resolver = resolve.New(resolve.WithLogger(m.logger))
	return m
}

// DropOnBlock applies a drop described by a target decision.
func (m *Mutator) DropOnBlock(ctx context.Context, d Drop) Result {
	return m.guard("drop on block", d.Dest, d.Snapshot, func() Result {
		return m.dropOnBlock(ctx, d)
	})
}

// DropOnCanvas applies a drop onto the canvas root.
func (m *Mutator) DropOnCanvas(ctx context.Context, d CanvasDrop) Result {
	return m.guard("drop on canvas", d.Dest, d.Snapshot, func() Result {
		return m.dropOnCanvas(ctx, d)
	})
}

// guard logs failures and converts panics into failed results.
func (m *Mutator) guard(op string, dest store.Doc, snap *snapshot.Snapshot, fn func() Result) (res Result) {
	fields := func(err error) []zap.Field {
		fs := []zap.Field{zap.String("op", op), zap.Strings("units", snap.IDs()), zap.Error(err)}
		if dest != nil {
			fs = append(fs, zap.String("doc", dest.ID()))
		}
		return fs
	}
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrPanic, r)
			m.logger.Error("drop panicked", fields(err)...)
			res = Result{Reason: ReasonFailed, Err: err}
		}
	}()

	res = fn()
	switch res.Reason {
	case ReasonFailed:
		m.logger.Error("drop failed", fields(res.Err)...)
	case ReasonRejected:
		m.logger.Debug("drop rejected", fields(res.Err)...)
	}
	return res
}

func failed(err error, applied []string) Result {
	return Result{Reason: ReasonFailed, Err: err, IDs: applied}
}

func applied(ids []string) Result {
	return Result{Applied: true, IDs: ids}
}

func (m *Mutator) dropOnBlock(ctx context.Context, d Drop) Result {
	if d.Snapshot.IsEmpty() {
		return Result{Reason: ReasonEmpty}
	}
	tgt, ok := d.Dest.GetBlock(d.Decision.Target)
	if !ok {
		return failed(fmt.Errorf("%w: %s", ErrTargetNotFound, d.Decision.Target), nil)
	}
	parent, index, err := insertionPoint(d.Dest, tgt, d.Decision.Placement)
	if err != nil {
		return failed(err, nil)
	}

	sameDoc := d.Source != nil && d.Source.ID() == d.Dest.ID()
	if _, canvas := d.Snapshot.Surface(); sameDoc && !canvas {
		return m.moveWithin(ctx, d, tgt, parent, index)
	}
	return m.importOnto(ctx, d, tgt, parent, index, sameDoc)
}

// insertionPoint returns the parent block and child index for a placement.
// Index -1 appends.
func insertionPoint(doc store.Doc, tgt *model.Block, p target.Placement) (*model.Block, int, error) {
	if p == target.PlacementInside {
		return tgt, -1, nil
	}
	parent, ok := doc.GetBlock(tgt.Parent)
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoParent, tgt.ID)
	}
	index := slices.Index(parent.Children, tgt.ID)
	if p == target.PlacementAfter {
		index++
	}
	return parent, index, nil
}

// mergeTarget reports whether the drop merges a single container unit into
// a container of the same flavour.
func mergeTarget(d Drop, tgt *model.Block) (*snapshot.BlockSnapshot, bool) {
	if d.Decision.Placement != target.PlacementInside || len(d.Snapshot.Blocks) != 1 {
		return nil, false
	}
	unit := d.Snapshot.Blocks[0]
	if !unit.Flavour.IsNoteLike() || unit.Flavour != tgt.Flavour {
		return nil, false
	}
	return unit, true
}

// moveWithin moves live blocks inside one document, keeping their ids.
func (m *Mutator) moveWithin(ctx context.Context, d Drop, tgt, parent *model.Block, index int) Result {
	ids := d.Snapshot.IDs()
	if slices.Contains(ids, tgt.ID) {
		return Result{Reason: ReasonNoop}
	}

	if unit, ok := mergeTarget(d, tgt); ok {
		shell, ok := d.Dest.GetBlock(unit.ID)
		if !ok {
			return failed(fmt.Errorf("%w: %s", store.ErrBlockNotFound, unit.ID), nil)
		}
		if len(shell.Children) > 0 {
			if err := d.Dest.MoveBlocks(ctx, shell.Children, tgt.ID, -1); err != nil {
				return failed(err, nil)
			}
		}
		if err := d.Dest.DeleteBlock(ctx, shell.ID); err != nil {
			return failed(err, shell.Children)
		}
		return applied(shell.Children)
	}

	if inPlace(parent, ids, index) {
		return Result{Reason: ReasonNoop}
	}
	for _, u := range d.Snapshot.Blocks {
		if err := m.validator.SafeValidate(u.Flavour, parent.Flavour); err != nil {
			return Result{Reason: ReasonRejected, Err: err}
		}
	}
	if err := d.Dest.MoveBlocks(ctx, ids, parent.ID, index); err != nil {
		return failed(err, nil)
	}
	return applied(ids)
}

// inPlace reports whether inserting ids under parent at index would leave
// them where they are: they already form a contiguous run whose first or
// last member neighbours the insertion point.
func inPlace(parent *model.Block, ids []string, index int) bool {
	start := slices.Index(parent.Children, ids[0])
	if start < 0 || start+len(ids) > len(parent.Children) {
		return false
	}
	if !slices.Equal(parent.Children[start:start+len(ids)], ids) {
		return false
	}
	if index < 0 || index > len(parent.Children) {
		index = len(parent.Children)
	}
	return index == start || index == start+len(ids)
}

// importOnto imports content from another document, or canvas content,
// relative to a target block.
func (m *Mutator) importOnto(ctx context.Context, d Drop, tgt, parent *model.Block, index int, sameDoc bool) Result {
	rewritten := m.transformer.Rewrite(d.Snapshot, d.Point, coord.Options{})

	units := rewritten
	shell, merging := mergeTarget(d, tgt)
	if merging {
		if sameDoc && shell.ID == tgt.ID {
			return Result{Reason: ReasonNoop}
		}
		units = &snapshot.Snapshot{DocID: rewritten.DocID, Mode: rewritten.Mode, Blocks: rewritten.Blocks[0].Children}
	}

	if m.allValid(units, parent.Flavour) {
		ids, err := m.importBlocks(ctx, d.Dest, units, parent.ID, index)
		if err != nil {
			return failed(err, ids)
		}
		if d.Source != nil && !sameDoc {
			m.deleteSources(ctx, d.Source, d.Snapshot)
		}
		return applied(ids)
	}
	return m.placeholder(ctx, d.Dest, rewritten, parent, index, d.Point)
}

// allValid reports whether every unit can be inserted under parent member
// by member. A surface unit never can.
func (m *Mutator) allValid(s *snapshot.Snapshot, parent model.Flavour) bool {
	for _, b := range s.Blocks {
		if b.Flavour == model.FlavourSurface || m.validator.SafeValidate(b.Flavour, parent) != nil {
			return false
		}
	}
	return true
}

// placeholder creates one card standing in for content that cannot be
// inserted member by member. A parent that takes no card gets a new note
// holding the card.
func (m *Mutator) placeholder(ctx context.Context, doc store.Doc, snap *snapshot.Snapshot, parent *model.Block, index int, at model.Point) Result {
	host, hostFlavour := parent.ID, parent.Flavour
	var wrapper string
	if !m.acceptsCard(hostFlavour) {
		if err := m.validator.SafeValidate(model.FlavourNote, parent.Flavour); err != nil {
			return Result{Reason: ReasonRejected, Err: err}
		}
		id, err := doc.AddBlock(ctx, model.FlavourNote, m.noteProps(at), parent.ID, index)
		if err != nil {
			return failed(err, nil)
		}
		wrapper, host, hostFlavour, index = id, id, model.FlavourNote, -1
	}

	flavour := model.FlavourLinkedDoc
	props := model.Props{model.PropPageID: snap.DocID}
	if largest, ok := LargestMember(snap); ok && m.validator.SafeValidate(model.FlavourSurfaceRef, hostFlavour) == nil {
		flavour = model.FlavourSurfaceRef
		props = model.Props{
			model.PropReference:  largest.ID,
			model.PropRefFlavour: largest.Type,
			model.PropPageID:     snap.DocID,
		}
	}
	if bound, ok := m.transformer.CardBound(flavour, at); ok {
		props.SetBound(bound)
	}

	id, err := doc.AddBlock(ctx, flavour, props, host, index)
	if err != nil {
		if wrapper != "" {
			return failed(err, []string{wrapper})
		}
		return failed(err, nil)
	}
	m.logger.Debug("created placeholder",
		zap.String("doc", doc.ID()),
		zap.Stringer("flavour", flavour),
		zap.String("id", id),
		zap.String("wrapper", wrapper),
	)
	if wrapper != "" {
		return applied([]string{wrapper})
	}
	return applied([]string{id})
}

func (m *Mutator) acceptsCard(parent model.Flavour) bool {
	return m.validator.SafeValidate(model.FlavourLinkedDoc, parent) == nil ||
		m.validator.SafeValidate(model.FlavourSurfaceRef, parent) == nil
}

// noteProps returns the props of a default-size note at p.
func (m *Mutator) noteProps(p model.Point) model.Props {
	props := model.Props{}
	props.SetBound(model.Bound{X: p.X, Y: p.Y, W: m.note.DefaultWidth, H: m.note.DefaultHeight})
	return props
}

// importBlocks creates the block units of s under parent starting at index
// and returns their new ids.
func (m *Mutator) importBlocks(ctx context.Context, doc store.Doc, s *snapshot.Snapshot, parent string, index int) ([]string, error) {
	table, err := m.resolver.Resolve(ctx, s, func(ctx context.Context, mem *resolve.Member) (string, error) {
		if mem.Kind != resolve.KindBlock {
			return "", fmt.Errorf("%w: %s %s", ErrNotAllowed, mem.Kind, mem.ID)
		}
		pos := -1
		if index >= 0 {
			pos = index + mem.Index
		}
		return importTree(ctx, doc, mem.Block, parent, pos)
	})
	if table == nil {
		return nil, err
	}
	return table.Values(), err
}

// importTree creates b and its subtree under parent and returns the new id
// of b.
func importTree(ctx context.Context, doc store.Doc, b *snapshot.BlockSnapshot, parent string, index int) (string, error) {
	root, err := doc.AddBlock(ctx, b.Flavour, b.Props, parent, index)
	if err != nil {
		return "", err
	}
	type item struct {
		snap *snapshot.BlockSnapshot
		live string
	}
	stack := []item{{b, root}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range cur.snap.Children {
			id, err := doc.AddBlock(ctx, c.Flavour, c.Props, cur.live, -1)
			if err != nil {
				return root, err
			}
			stack = append(stack, item{c, id})
		}
	}
	return root, nil
}

// deleteSources removes moved units from the document they came from.
// Failures are logged; the destination already holds the content.
func (m *Mutator) deleteSources(ctx context.Context, src store.Doc, snap *snapshot.Snapshot) {
	del := func(err error, id string) {
		if err != nil && !errors.Is(err, store.ErrBlockNotFound) && !errors.Is(err, store.ErrElementNotFound) {
			m.logger.Warn("failed to delete moved source",
				zap.String("doc", src.ID()),
				zap.String("id", id),
				zap.Error(err),
			)
		}
	}
	for _, u := range snap.Blocks {
		if u.Flavour != model.FlavourSurface {
			del(src.DeleteBlock(ctx, u.ID), u.ID)
			continue
		}
		for _, c := range u.Children {
			del(src.DeleteBlock(ctx, c.ID), c.ID)
		}
		for _, e := range u.Elements {
			del(src.DeleteElement(ctx, e.ID()), e.ID())
		}
	}
}
