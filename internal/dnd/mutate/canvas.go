package mutate

import (
	"context"
	"fmt"

	"github.com/dshills/blockdrop/internal/dnd/coord"
	"github.com/dshills/blockdrop/internal/dnd/resolve"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

func (m *Mutator) dropOnCanvas(ctx context.Context, d CanvasDrop) Result {
	if d.Snapshot.IsEmpty() {
		return Result{Reason: ReasonEmpty}
	}
	sameDoc := d.Source != nil && d.Source.ID() == d.Dest.ID()
	if sameDoc && d.Snapshot.Mode == snapshot.ModeCanvas {
		return Result{Reason: ReasonRejected, Err: fmt.Errorf("%w: canvas selection onto its own canvas", ErrNotAllowed)}
	}

	surfaceID, err := ensureSurface(ctx, d.Dest)
	if err != nil {
		return failed(err, nil)
	}
	rewritten := m.transformer.Rewrite(d.Snapshot, d.Point, coord.Options{})
	canvas, wrap := m.partition(rewritten, surfaceID, d.Point)

	root := d.Dest.Root()
	table, err := m.resolver.Resolve(ctx, canvas, func(ctx context.Context, mem *resolve.Member) (string, error) {
		switch mem.Kind {
		case resolve.KindElement:
			return d.Dest.AddElement(ctx, mem.Element)
		case resolve.KindSurfaceBlock:
			return importTree(ctx, d.Dest, mem.Block, surfaceID, -1)
		default:
			return importTree(ctx, d.Dest, mem.Block, root, -1)
		}
	})
	var ids []string
	if table != nil {
		ids = table.Values()
	}
	if err != nil {
		return failed(err, ids)
	}

	if len(wrap) > 0 {
		noteID, err := d.Dest.AddBlock(ctx, model.FlavourNote, m.noteProps(d.Point), root, -1)
		if err != nil {
			return failed(err, ids)
		}
		ids = append(ids, noteID)
		inner := &snapshot.Snapshot{DocID: rewritten.DocID, Mode: rewritten.Mode, Blocks: wrap}
		if _, err := m.importBlocks(ctx, d.Dest, inner, noteID, -1); err != nil {
			return failed(err, ids)
		}
	}

	if d.Source != nil {
		m.deleteSources(ctx, d.Source, d.Snapshot)
	}
	return applied(ids)
}

// partition splits units into what goes onto the canvas and what needs a
// wrapping note. Canvas members are gathered under one surface unit;
// note-level units stay top-level and get a default bound if they have none.
func (m *Mutator) partition(s *snapshot.Snapshot, surfaceID string, at model.Point) (*snapshot.Snapshot, []*snapshot.BlockSnapshot) {
	canvas := &snapshot.Snapshot{DocID: s.DocID, Mode: s.Mode}
	surface := &snapshot.BlockSnapshot{ID: surfaceID, Flavour: model.FlavourSurface, Props: model.Props{}}
	var wrap []*snapshot.BlockSnapshot

	for _, u := range s.Blocks {
		switch {
		case u.Flavour == model.FlavourSurface:
			surface.Children = append(surface.Children, u.Children...)
			surface.Elements = append(surface.Elements, u.Elements...)
		case m.validator.SafeValidate(u.Flavour, model.FlavourSurface) == nil:
			surface.Children = append(surface.Children, u)
		case m.validator.SafeValidate(u.Flavour, model.FlavourPage) == nil:
			if _, ok := u.Props.Bound(); !ok && u.Flavour.IsNoteLike() {
				if u.Props == nil {
					u.Props = model.Props{}
				}
				u.Props.SetBound(model.Bound{X: at.X, Y: at.Y, W: m.note.DefaultWidth, H: m.note.DefaultHeight})
			}
			canvas.Blocks = append(canvas.Blocks, u)
		default:
			wrap = append(wrap, u)
		}
	}
	if len(surface.Children) > 0 || len(surface.Elements) > 0 {
		canvas.Blocks = append(canvas.Blocks, surface)
	}
	return canvas, wrap
}

// ensureSurface returns the document's surface, creating it when missing.
func ensureSurface(ctx context.Context, doc store.Doc) (string, error) {
	if id, ok := doc.Surface(); ok {
		return id, nil
	}
	return doc.AddBlock(ctx, model.FlavourSurface, nil, doc.Root(), -1)
}
