package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/snapshot"
)

func boundProps(b model.Bound) model.Props {
	p := model.Props{}
	p.SetBound(b)
	return p
}

func element(t *testing.T, id string, typ model.ElementType, b model.Bound, children ...string) model.Element {
	t.Helper()
	e, err := model.BuildElement(id, typ, b, children...)
	require.NoError(t, err)
	return e
}

func blockBound(t *testing.T, b *snapshot.BlockSnapshot) model.Bound {
	t.Helper()
	bound, ok := b.Props.Bound()
	require.True(t, ok, "block %s has no bound", b.ID)
	return bound
}

func elementBound(t *testing.T, e model.Element) model.Bound {
	t.Helper()
	bound, ok := e.Bound()
	require.True(t, ok, "element %s has no bound", e.ID())
	return bound
}

func canvasSnapshot(t *testing.T) *snapshot.Snapshot {
	return &snapshot.Snapshot{
		DocID: "doc",
		Mode:  snapshot.ModeCanvas,
		Blocks: []*snapshot.BlockSnapshot{
			{ID: "n1", Flavour: model.FlavourNote, Props: boundProps(model.Bound{X: 100, Y: 50, W: 200, H: 80})},
			{
				ID:      "surface",
				Flavour: model.FlavourSurface,
				Props:   model.Props{},
				Elements: []model.Element{
					element(t, "g", model.ElementGroup, model.Bound{X: 20, Y: 200, W: 60, H: 60}, "s"),
					element(t, "s", model.ElementShape, model.Bound{X: 30, Y: 210, W: 10, H: 10}),
				},
			},
		},
	}
}

func TestRewrite_Relative(t *testing.T) {
	src := canvasSnapshot(t)
	tr := New(nil)

	// Aggregate box origin is (20, 50).
	dest := model.Point{X: 1000, Y: 500}
	out := tr.Rewrite(src, dest, Options{})

	assert.Equal(t, model.Bound{X: 100 - 20 + 1000, Y: 50 - 50 + 500, W: 200, H: 80}, blockBound(t, out.Blocks[0]))
	surface := out.Blocks[1]
	assert.Equal(t, model.Bound{X: 1000, Y: 650, W: 60, H: 60}, elementBound(t, surface.Elements[0]))
	assert.Equal(t, model.Bound{X: 1010, Y: 660, W: 10, H: 10}, elementBound(t, surface.Elements[1]))

	box, ok := model.UnionAll(out.Bounds())
	require.True(t, ok)
	assert.Equal(t, dest, box.Origin())

	// The input is untouched.
	assert.Equal(t, model.Bound{X: 100, Y: 50, W: 200, H: 80}, blockBound(t, src.Blocks[0]))
}

func TestRewrite_Absolute(t *testing.T) {
	out := New(nil).Rewrite(canvasSnapshot(t), model.Point{X: 7, Y: 9}, Options{IgnoreOriginalPosition: true})

	assert.Equal(t, model.Bound{X: 7, Y: 9, W: 200, H: 80}, blockBound(t, out.Blocks[0]))
	surface := out.Blocks[1]
	assert.Equal(t, model.Bound{X: 7, Y: 9, W: 60, H: 60}, elementBound(t, surface.Elements[0]))
	// Owned by the group, so not a top-level member.
	assert.Equal(t, model.Bound{X: 30, Y: 210, W: 10, H: 10}, elementBound(t, surface.Elements[1]))
}

func TestRewrite_NoBounds(t *testing.T) {
	src := &snapshot.Snapshot{Blocks: []*snapshot.BlockSnapshot{
		{ID: "p", Flavour: model.FlavourParagraph, Props: model.Props{model.PropText: "hi"}},
	}}
	out := New(nil).Rewrite(src, model.Point{X: 5, Y: 5}, Options{})
	assert.Equal(t, src, out)
	assert.NotSame(t, src.Blocks[0], out.Blocks[0])

	assert.True(t, New(nil).Rewrite(nil, model.Point{}, Options{}).IsEmpty())
}

func TestRewrite_ResizesCards(t *testing.T) {
	cfg := config.Default()
	cfg.Cards[model.FlavourEmbed.String()] = config.CardSize{Width: 300, Height: 200}
	src := &snapshot.Snapshot{Blocks: []*snapshot.BlockSnapshot{
		{ID: "e", Flavour: model.FlavourEmbed, Props: boundProps(model.Bound{X: 10, Y: 10, W: 1, H: 1})},
		{ID: "a", Flavour: model.FlavourAttachment, Props: boundProps(model.Bound{X: 20, Y: 30, W: 1, H: 1})},
		{ID: "i", Flavour: model.FlavourImage, Props: boundProps(model.Bound{X: 40, Y: 40, W: 5, H: 5})},
	}}

	out := New(cfg).Rewrite(src, model.Point{X: 0, Y: 0}, Options{})
	assert.Equal(t, model.Bound{X: 0, Y: 0, W: 300, H: 200}, blockBound(t, out.Blocks[0]))
	assert.Equal(t, model.Bound{X: 10, Y: 20, W: 752, H: 74}, blockBound(t, out.Blocks[1]))
	assert.Equal(t, model.Bound{X: 30, Y: 30, W: 5, H: 5}, blockBound(t, out.Blocks[2]))
}

func TestCardBound(t *testing.T) {
	tr := New(nil)
	b, ok := tr.CardBound(model.FlavourSurfaceRef, model.Point{X: 3, Y: 4})
	require.True(t, ok)
	assert.Equal(t, model.Bound{X: 3, Y: 4, W: 752, H: 455}, b)

	_, ok = tr.CardBound(model.FlavourParagraph, model.Point{})
	assert.False(t, ok)
}
