package target

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/schema"
	"github.com/dshills/blockdrop/internal/snapshot"
	"github.com/dshills/blockdrop/internal/store"
)

type fixture struct {
	doc    *store.Memory
	layout *StaticLayout
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := store.NewMemory("doc", store.WithSchema(schema.Default()))
	put := func(id string, f model.Flavour, parent string) {
		require.NoError(t, m.Put(&model.Block{ID: id, Flavour: f, Parent: parent}, -1))
	}
	put("surface", model.FlavourSurface, "root")
	put("n1", model.FlavourNote, "root")
	put("p1", model.FlavourParagraph, "n1")
	put("l", model.FlavourList, "n1")
	put("db", model.FlavourDatabase, "n1")
	put("row", model.FlavourParagraph, "db")
	put("n2", model.FlavourNote, "root")
	put("q1", model.FlavourParagraph, "n2")

	layout := NewStaticLayout(map[string]model.Bound{
		"surface": {X: 0, Y: 0, W: 2000, H: 2000},
		"n1":      {X: 0, Y: 0, W: 400, H: 300},
		"p1":      {X: 10, Y: 10, W: 380, H: 40},
		"l":       {X: 10, Y: 60, W: 380, H: 40},
		"db":      {X: 10, Y: 110, W: 380, H: 60},
		"row":     {X: 10, Y: 120, W: 380, H: 20},
		"n2":      {X: 0, Y: 400, W: 400, H: 100},
		"q1":      {X: 10, Y: 410, W: 380, H: 40},
	})
	return &fixture{doc: m, layout: layout}
}

func (f *fixture) resolver(opts ...Option) *Resolver {
	return New(f.doc, schema.Default(), f.layout, opts...)
}

func snap(docID string, units ...model.Flavour) *snapshot.Snapshot {
	s := &snapshot.Snapshot{DocID: docID, Mode: snapshot.ModePage}
	for i, f := range units {
		s.Blocks = append(s.Blocks, &snapshot.BlockSnapshot{ID: "u" + string(rune('0'+i)), Flavour: f})
	}
	return s
}

func TestResolve_Placements(t *testing.T) {
	paragraphs := snap("other", model.FlavourParagraph, model.FlavourParagraph)
	tests := []struct {
		name    string
		hovered string
		pointer model.Point
		snap    *snapshot.Snapshot
		want    Decision
	}{
		{
			name:    "top half",
			hovered: "p1", pointer: model.Point{X: 50, Y: 15}, snap: paragraphs,
			want: Decision{PlacementBefore, "p1", model.Bound{X: 10, Y: 8.5, W: 380, H: 3}},
		},
		{
			name:    "bottom half",
			hovered: "p1", pointer: model.Point{X: 50, Y: 45}, snap: paragraphs,
			want: Decision{PlacementAfter, "p1", model.Bound{X: 10, Y: 48.5, W: 380, H: 3}},
		},
		{
			name:    "list trailing edge nests",
			hovered: "l", pointer: model.Point{X: 40, Y: 90}, snap: paragraphs,
			want: Decision{PlacementInside, "l", model.Bound{X: 34, Y: 98.5, W: 356, H: 3}},
		},
		{
			name:    "list leading side",
			hovered: "l", pointer: model.Point{X: 20, Y: 90}, snap: paragraphs,
			want: Decision{PlacementAfter, "l", model.Bound{X: 10, Y: 98.5, W: 380, H: 3}},
		},
		{
			name:    "list cannot hold cards",
			hovered: "l", pointer: model.Point{X: 40, Y: 90}, snap: snap("other", model.FlavourAttachment),
			want: Decision{PlacementAfter, "n1", model.Bound{X: 0, Y: 298.5, W: 400, H: 3}},
		},
		{
			name:    "note into note",
			hovered: "n2", pointer: model.Point{X: 5, Y: 405}, snap: snap("other", model.FlavourNote),
			want: Decision{PlacementInside, "n2", model.Bound{X: 0, Y: 498.5, W: 400, H: 3}},
		},
		{
			name:    "content over note",
			hovered: "n2", pointer: model.Point{X: 5, Y: 480}, snap: paragraphs,
			want: Decision{PlacementAfter, "n2", model.Bound{X: 0, Y: 498.5, W: 400, H: 3}},
		},
		{
			name:    "own unit",
			hovered: "p1", pointer: model.Point{X: 50, Y: 15}, snap: &snapshot.Snapshot{DocID: "doc", Blocks: []*snapshot.BlockSnapshot{{ID: "p1", Flavour: model.FlavourParagraph}}},
			want: Decision{PlacementBefore, "p1", model.Bound{X: 10, Y: 8.5, W: 380, H: 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			got, ok := f.resolver().Resolve(Input{
				Pointer:        tt.pointer,
				Hovered:        tt.hovered,
				Snapshot:       tt.snap,
				Mode:           snapshot.ModePage,
				FromThisEditor: true,
			})
			require.True(t, ok)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestResolve_Rejections(t *testing.T) {
	paragraphs := snap("other", model.FlavourParagraph)
	tests := []struct {
		name    string
		hovered string
		pointer model.Point
		snap    *snapshot.Snapshot
		foreign bool
	}{
		{name: "empty snapshot", hovered: "p1", pointer: model.Point{X: 50, Y: 15}, snap: &snapshot.Snapshot{}},
		{name: "nil snapshot", hovered: "p1", pointer: model.Point{X: 50, Y: 15}},
		{name: "foreign drag", hovered: "p1", pointer: model.Point{X: 50, Y: 15}, snap: paragraphs, foreign: true},
		{name: "surface", hovered: "surface", pointer: model.Point{X: 50, Y: 15}, snap: paragraphs},
		{name: "root", hovered: "root", pointer: model.Point{X: 50, Y: 15}, snap: paragraphs},
		{name: "database", hovered: "db", pointer: model.Point{X: 50, Y: 115}, snap: paragraphs},
		{name: "inside database", hovered: "row", pointer: model.Point{X: 50, Y: 125}, snap: paragraphs},
		{name: "outside note", hovered: "p1", pointer: model.Point{X: 500, Y: 15}, snap: paragraphs},
		{name: "unknown block", hovered: "nope", pointer: model.Point{X: 50, Y: 15}, snap: paragraphs},
		{
			name:    "own subtree",
			hovered: "p1", pointer: model.Point{X: 50, Y: 15},
			snap: &snapshot.Snapshot{DocID: "doc", Blocks: []*snapshot.BlockSnapshot{{ID: "n1", Flavour: model.FlavourNote}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, ok := f.resolver().Resolve(Input{
				Pointer:        tt.pointer,
				Hovered:        tt.hovered,
				Snapshot:       tt.snap,
				Mode:           snapshot.ModePage,
				FromThisEditor: !tt.foreign,
			})
			assert.False(t, ok)
		})
	}
}

func TestResolve_Filter(t *testing.T) {
	f := newFixture(t)
	var seen []string
	r := f.resolver(WithFilter(FilterFunc(func(c Candidate) bool {
		seen = append(seen, c.Block.ID)
		return c.Block.ID != "q1"
	})))

	in := Input{Pointer: model.Point{X: 50, Y: 15}, Hovered: "p1", Snapshot: snap("other", model.FlavourParagraph), FromThisEditor: true}
	_, ok := r.Resolve(in)
	assert.True(t, ok)

	in.Hovered, in.Pointer = "q1", model.Point{X: 50, Y: 415}
	_, ok = r.Resolve(in)
	assert.False(t, ok)
	assert.Equal(t, []string{"p1", "q1"}, seen)
}

func TestResolve_CanvasZoom(t *testing.T) {
	f := newFixture(t)
	f.layout.SetZoom(2)
	in := Input{
		Pointer:        model.Point{X: 50, Y: 15},
		Hovered:        "p1",
		Snapshot:       snap("other", model.FlavourParagraph),
		Mode:           snapshot.ModeCanvas,
		FromThisEditor: true,
	}
	got, ok := f.resolver().Resolve(in)
	require.True(t, ok)
	assert.Equal(t, model.Bound{X: 10, Y: 7, W: 380, H: 6}, got.Indicator)

	in.Mode = snapshot.ModePage
	got, ok = f.resolver().Resolve(in)
	require.True(t, ok)
	assert.Equal(t, 3.0, got.Indicator.H)
}

func TestStaticLayout(t *testing.T) {
	l := NewStaticLayout(nil)
	_, ok := l.Rect("a")
	assert.False(t, ok)
	l.Set("a", model.Bound{W: 1, H: 1})
	r, ok := l.Rect("a")
	require.True(t, ok)
	assert.Equal(t, model.Bound{W: 1, H: 1}, r)

	l.SetZoom(0)
	assert.Equal(t, 1.0, l.Zoom())
	l.SetZoom(1.5)
	assert.Equal(t, 1.5, l.Zoom())
}

func TestStaticLayout_HitTest(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		p    model.Point
		want string
	}{
		{"innermost block", model.Point{X: 50, Y: 20}, "p1"},
		{"nested database row", model.Point{X: 50, Y: 130}, "row"},
		{"note padding", model.Point{X: 5, Y: 250}, "n1"},
		{"bare canvas", model.Point{X: 1500, Y: 1500}, "surface"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := f.layout.HitTest(tt.p)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := NewStaticLayout(nil).HitTest(model.Point{})
	assert.False(t, ok)
}
