package snapshot

import (
	"bytes"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/store"
)

var elementComparer = cmp.Comparer(func(a, b model.Element) bool {
	ab, _ := a.Bound()
	bb, _ := b.Bound()
	return a.ID() == b.ID() && a.Type() == b.Type() && ab == bb && slices.Equal(a.Children(), b.Children())
})

func sample(t *testing.T) *Snapshot {
	t.Helper()
	shape, err := model.BuildElement("s1", model.ElementShape, model.Bound{X: 10, Y: 10, W: 20, H: 20})
	require.NoError(t, err)
	group, err := model.BuildElement("g1", model.ElementGroup, model.Bound{X: 10, Y: 10, W: 20, H: 20}, "s1")
	require.NoError(t, err)

	return &Snapshot{
		DocID: "doc",
		Mode:  ModeCanvas,
		Blocks: []*BlockSnapshot{
			{
				ID:       "surface",
				Flavour:  model.FlavourSurface,
				Props:    model.Props{},
				Elements: []model.Element{shape, group},
			},
			{
				ID:      "note",
				Flavour: model.FlavourNote,
				Props:   model.Props{"xywh": "[100,100,50,50]"},
				Children: []*BlockSnapshot{
					{ID: "p", Flavour: model.FlavourParagraph, Props: model.Props{"text": "hi"}},
				},
			},
		},
	}
}

func TestSnapshot_Accessors(t *testing.T) {
	s := sample(t)
	assert.False(t, s.IsEmpty())
	assert.Equal(t, "surface", s.First().ID)
	assert.Equal(t, "note", s.Last().ID)
	assert.Equal(t, []string{"surface", "note"}, s.IDs())

	surface, ok := s.Surface()
	require.True(t, ok)
	_, ok = surface.Element("g1")
	assert.True(t, ok)

	var empty *Snapshot
	assert.True(t, empty.IsEmpty())
	assert.Nil(t, empty.First())
}

func TestSnapshot_Walk(t *testing.T) {
	var seen []string
	var depths []int
	sample(t).Walk(func(b *BlockSnapshot, depth int) bool {
		seen = append(seen, b.ID)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"surface", "note", "p"}, seen)
	assert.Equal(t, []int{0, 0, 1}, depths)
}

func TestSnapshot_Bounds(t *testing.T) {
	bounds := sample(t).Bounds()
	assert.Equal(t, []model.Bound{
		{X: 100, Y: 100, W: 50, H: 50},
		{X: 10, Y: 10, W: 20, H: 20},
		{X: 10, Y: 10, W: 20, H: 20},
	}, bounds)
}

func TestSnapshot_CloneIsDetached(t *testing.T) {
	s := sample(t)
	c := s.Clone()
	c.Blocks[1].Props["xywh"] = "[0,0,1,1]"
	c.Blocks[1].Children[0].ID = "changed"

	assert.Equal(t, "[100,100,50,50]", s.Blocks[1].Props["xywh"])
	assert.Equal(t, "p", s.Blocks[1].Children[0].ID)
}

func TestCodec_RoundTrip(t *testing.T) {
	s := sample(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, s))
	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(s, got, elementComparer, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	_, err = Unmarshal([]byte(`{"blocks":[{"id":"x","flavour":"nope"}]}`))
	assert.Error(t, err)
}

func TestCapture(t *testing.T) {
	d := store.NewMemory("doc")
	require.NoError(t, d.Put(&model.Block{ID: "surface", Flavour: model.FlavourSurface, Parent: "root"}, -1))
	require.NoError(t, d.Put(&model.Block{ID: "note", Flavour: model.FlavourNote, Parent: "root"}, -1))
	require.NoError(t, d.Put(&model.Block{ID: "p1", Flavour: model.FlavourParagraph, Parent: "note"}, -1))
	require.NoError(t, d.Put(&model.Block{ID: "p2", Flavour: model.FlavourParagraph, Parent: "note"}, -1))
	require.NoError(t, d.Put(&model.Block{ID: "p1a", Flavour: model.FlavourList, Parent: "p1"}, -1))
	shape, err := model.BuildElement("s1", model.ElementShape, model.Bound{W: 1, H: 1})
	require.NoError(t, err)
	require.NoError(t, d.PutElement(shape))

	note, ok := Capture(d, "note")
	require.True(t, ok)
	require.Len(t, note.Children, 2)
	assert.Equal(t, "p1", note.Children[0].ID)
	assert.Equal(t, "p1a", note.Children[0].Children[0].ID)
	assert.Equal(t, "p2", note.Children[1].ID)

	surface, ok := Capture(d, "surface")
	require.True(t, ok)
	require.Len(t, surface.Elements, 1)

	_, ok = Capture(d, "missing")
	assert.False(t, ok)
}
