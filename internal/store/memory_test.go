package store

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/schema"
)

func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func newTestDoc(t *testing.T) *Memory {
	t.Helper()
	m := NewMemory("doc", WithSchema(schema.Default()), WithIDGenerator(seqIDs("n")))
	require.NoError(t, m.Put(&model.Block{ID: "note", Flavour: model.FlavourNote, Parent: "root"}, -1))
	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.Put(&model.Block{ID: id, Flavour: model.FlavourParagraph, Parent: "note"}, -1))
	}
	return m
}

func children(t *testing.T, d Doc, id string) []string {
	t.Helper()
	b, ok := d.GetBlock(id)
	require.True(t, ok)
	return b.Children
}

func TestNewMemory(t *testing.T) {
	m := NewMemory("doc")
	assert.Equal(t, "doc", m.ID())
	assert.Equal(t, "root", m.Root())
	assert.Equal(t, 1, m.BlockCount())
	_, ok := m.GetParent("root")
	assert.False(t, ok)
}

func TestMemory_AddBlock(t *testing.T) {
	ctx := context.Background()
	m := newTestDoc(t)

	id, err := m.AddBlock(ctx, model.FlavourParagraph, model.Props{"text": "x"}, "note", 1)
	require.NoError(t, err)
	assert.Equal(t, "n1", id)
	assert.Equal(t, []string{"a", "n1", "b", "c", "d"}, children(t, m, "note"))

	parent, ok := m.GetParent(id)
	require.True(t, ok)
	assert.Equal(t, "note", parent)

	_, err = m.AddBlock(ctx, model.FlavourNote, nil, "note", -1)
	assert.ErrorIs(t, err, schema.ErrParentNotAllowed)

	_, err = m.AddBlock(ctx, model.FlavourParagraph, nil, "missing", -1)
	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestMemory_AddBlock_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestDoc(t).AddBlock(ctx, model.FlavourParagraph, nil, "note", -1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemory_UpdateBlock(t *testing.T) {
	ctx := context.Background()
	m := newTestDoc(t)

	require.NoError(t, m.UpdateBlock(ctx, "a", model.Props{"text": "hello", "type": "h1"}))
	require.NoError(t, m.UpdateBlock(ctx, "a", model.Props{"type": nil}))
	b, _ := m.GetBlock("a")
	assert.Equal(t, model.Props{"text": "hello"}, b.Props)

	assert.Error(t, m.UpdateBlock(ctx, "a", model.Props{"type": "h9"}))
	assert.ErrorIs(t, m.UpdateBlock(ctx, "zzz", nil), ErrBlockNotFound)
}

func TestMemory_DeleteBlock(t *testing.T) {
	ctx := context.Background()
	m := newTestDoc(t)
	require.NoError(t, m.Put(&model.Block{ID: "a1", Flavour: model.FlavourParagraph, Parent: "a"}, -1))

	require.NoError(t, m.DeleteBlock(ctx, "a"))
	assert.False(t, m.HasBlock("a"))
	assert.False(t, m.HasBlock("a1"))
	assert.Equal(t, []string{"b", "c", "d"}, children(t, m, "note"))

	assert.ErrorIs(t, m.DeleteBlock(ctx, "root"), ErrRootImmutable)
	require.NoError(t, m.CheckTree())
}

func TestMemory_MoveBlocks(t *testing.T) {
	tests := []struct {
		name  string
		ids   []string
		index int
		want  []string
	}{
		{"forward", []string{"a"}, 3, []string{"b", "c", "a", "d"}},
		{"backward", []string{"d"}, 0, []string{"d", "a", "b", "c"}},
		{"run to end", []string{"a", "b"}, -1, []string{"c", "d", "a", "b"}},
		{"same place", []string{"b"}, 1, []string{"a", "b", "c", "d"}},
		{"same place after", []string{"b"}, 2, []string{"a", "b", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestDoc(t)
			require.NoError(t, m.MoveBlocks(context.Background(), tt.ids, "note", tt.index))
			assert.Equal(t, tt.want, children(t, m, "note"))
			require.NoError(t, m.CheckTree())
		})
	}
}

func TestMemory_MoveBlocks_RejectsCycle(t *testing.T) {
	m := newTestDoc(t)
	require.NoError(t, m.Put(&model.Block{ID: "a1", Flavour: model.FlavourParagraph, Parent: "a"}, -1))

	err := m.MoveBlocks(context.Background(), []string{"a"}, "a1", -1)
	assert.ErrorIs(t, err, ErrCycleDetected)
	require.NoError(t, m.CheckTree())
}

func TestMemory_Elements(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("doc", WithIDGenerator(seqIDs("e")))

	shape, err := model.BuildElement("s", model.ElementShape, model.Bound{W: 10, H: 10})
	require.NoError(t, err)
	assert.ErrorIs(t, m.PutElement(shape), ErrNoSurface)

	require.NoError(t, m.Put(&model.Block{ID: "surface", Flavour: model.FlavourSurface, Parent: "root"}, -1))
	sid, ok := m.Surface()
	require.True(t, ok)
	assert.Equal(t, "surface", sid)

	require.NoError(t, m.PutElement(shape))
	id, err := m.AddElement(ctx, shape)
	require.NoError(t, err)
	assert.Equal(t, "e1", id)

	got, ok := m.GetElement("e1")
	require.True(t, ok)
	assert.Equal(t, "e1", got.ID())

	moved, err := got.WithBound(model.Bound{X: 20, Y: 20, W: 10, H: 10})
	require.NoError(t, err)
	require.NoError(t, m.UpdateElement(ctx, moved))

	bounds, ok := m.ElementBounds()
	require.True(t, ok)
	assert.Equal(t, model.Bound{X: 0, Y: 0, W: 30, H: 30}, bounds)

	require.NoError(t, m.DeleteElement(ctx, "s"))
	assert.Len(t, m.Elements(), 1)
	assert.ErrorIs(t, m.DeleteElement(ctx, "s"), ErrElementNotFound)
}

func TestMemory_SaveLoad(t *testing.T) {
	m := newTestDoc(t)
	require.NoError(t, m.Put(&model.Block{ID: "surface", Flavour: model.FlavourSurface, Parent: "root"}, -1))
	e, err := model.BuildElement("g", model.ElementGroup, model.Bound{W: 1, H: 1}, "x")
	require.NoError(t, err)
	require.NoError(t, m.PutElement(e))
	require.NoError(t, m.UpdateBlock(context.Background(), "b", model.Props{"text": "bee"}))

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	loaded, err := Load(&buf, WithSchema(schema.Default()))
	require.NoError(t, err)
	assert.Equal(t, m.BlockCount(), loaded.BlockCount())
	assert.Equal(t, []string{"a", "b", "c", "d"}, children(t, loaded, "note"))
	b, _ := loaded.GetBlock("b")
	assert.Equal(t, "bee", b.Props.String("text"))
	g, ok := loaded.GetElement("g")
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, g.Children())
	require.NoError(t, loaded.CheckTree())
}

func TestHelpers(t *testing.T) {
	m := newTestDoc(t)
	require.NoError(t, m.Put(&model.Block{ID: "a1", Flavour: model.FlavourParagraph, Parent: "a"}, -1))

	assert.Equal(t, 2, IndexOf(m, "c"))
	assert.Equal(t, -1, IndexOf(m, "root"))
	assert.True(t, IsAncestor(m, "note", "a1"))
	assert.False(t, IsAncestor(m, "b", "a1"))

	note, ok := FindAncestor(m, "a1", func(b *model.Block) bool { return b.Flavour.IsNoteLike() })
	require.True(t, ok)
	assert.Equal(t, "note", note.ID)

	var order []string
	Walk(m, "note", func(b *model.Block) bool {
		order = append(order, b.ID)
		return true
	})
	assert.Equal(t, []string{"note", "a", "a1", "b", "c", "d"}, order)
}
