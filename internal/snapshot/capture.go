package snapshot

import (
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/store"
)

// Capture copies a live block and its subtree out of d.
// When the block is the surface, every canvas element is copied too.
func Capture(d store.Doc, id string) (*BlockSnapshot, bool) {
	root, ok := d.GetBlock(id)
	if !ok {
		return nil, false
	}
	out := fromBlock(root)

	type item struct {
		snap *BlockSnapshot
		ids  []string
	}
	stack := []item{{out, root.Children}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, cid := range cur.ids {
			child, ok := d.GetBlock(cid)
			if !ok {
				continue
			}
			cs := fromBlock(child)
			cur.snap.Children = append(cur.snap.Children, cs)
			stack = append(stack, item{cs, child.Children})
		}
	}

	if root.Flavour == model.FlavourSurface {
		if lister, ok := d.(interface{ Elements() []model.Element }); ok {
			out.Elements = lister.Elements()
		}
	}
	return out, true
}

func fromBlock(b *model.Block) *BlockSnapshot {
	return &BlockSnapshot{ID: b.ID, Flavour: b.Flavour, Props: b.Props.Clone()}
}
