package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlavour(t *testing.T) {
	for _, f := range Flavours() {
		got, err := ParseFlavour(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFlavour("kanban")
	assert.True(t, errors.Is(err, ErrUnknownFlavour))
}

func TestFlavour_Roles(t *testing.T) {
	tests := []struct {
		flavour  Flavour
		noteLike bool
		card     bool
		database bool
		group    bool
	}{
		{FlavourNote, true, false, false, false},
		{FlavourAttachment, false, true, false, false},
		{FlavourSurfaceRef, false, true, false, false},
		{FlavourDatabase, false, false, true, false},
		{FlavourFrame, false, false, false, true},
		{FlavourParagraph, false, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.flavour.String(), func(t *testing.T) {
			assert.Equal(t, tt.noteLike, tt.flavour.IsNoteLike())
			assert.Equal(t, tt.card, tt.flavour.IsCard())
			assert.Equal(t, tt.database, tt.flavour.IsDatabase())
			assert.Equal(t, tt.group, tt.flavour.IsGroupLike())
		})
	}
}

func TestFlavour_TextRoundTrip(t *testing.T) {
	text, err := FlavourLinkedDoc.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "linked-doc", string(text))

	var f Flavour
	require.NoError(t, f.UnmarshalText([]byte("edgeless-text")))
	assert.Equal(t, FlavourEdgelessText, f)

	_, err = FlavourUnknown.MarshalText()
	assert.Error(t, err)
}

func TestParseBound(t *testing.T) {
	b, err := ParseBound("[10, 20.5,100,50]")
	require.NoError(t, err)
	assert.Equal(t, Bound{X: 10, Y: 20.5, W: 100, H: 50}, b)
	assert.Equal(t, "[10,20.5,100,50]", b.String())

	for _, bad := range []string{"", "10,20,30,40", "[1,2,3]", "[a,b,c,d]"} {
		_, err := ParseBound(bad)
		assert.ErrorIs(t, err, ErrInvalidBound, bad)
	}
}

func TestBound_Geometry(t *testing.T) {
	a := Bound{X: 0, Y: 0, W: 10, H: 10}
	b := Bound{X: 20, Y: 5, W: 10, H: 20}

	assert.Equal(t, Bound{X: 0, Y: 0, W: 30, H: 25}, a.Union(b))
	assert.Equal(t, 200.0, b.Area())
	assert.True(t, a.Contains(Point{X: 10, Y: 10}))
	assert.False(t, a.Contains(Point{X: 10.1, Y: 0}))
	assert.Equal(t, Bound{X: 5, Y: 7, W: 10, H: 10}, a.Translate(Point{X: 5, Y: 7}))

	u, ok := UnionAll([]Bound{a, b})
	require.True(t, ok)
	assert.Equal(t, a.Union(b), u)

	_, ok = UnionAll(nil)
	assert.False(t, ok)
}

func TestProps_IDList(t *testing.T) {
	p := Props{
		"list": []any{"a", "b", 3},
		"map":  map[string]any{"z": true, "m": true},
	}
	assert.Equal(t, []string{"a", "b"}, p.IDList("list"))
	assert.Equal(t, []string{"m", "z"}, p.IDList("map"))
	assert.Nil(t, p.IDList("missing"))
}

func TestProps_CloneIsDeep(t *testing.T) {
	p := Props{"nested": map[string]any{"k": []any{"v"}}}
	c := p.Clone()
	c["nested"].(map[string]any)["k"].([]any)[0] = "changed"
	assert.Equal(t, "v", p["nested"].(map[string]any)["k"].([]any)[0])
}

func TestHeadingLevel(t *testing.T) {
	assert.Equal(t, 2, HeadingLevel(&Block{Flavour: FlavourParagraph, Props: Props{PropType: "h2"}}))
	assert.Equal(t, 0, HeadingLevel(&Block{Flavour: FlavourParagraph, Props: Props{PropType: "text"}}))
	assert.Equal(t, 0, HeadingLevel(&Block{Flavour: FlavourList, Props: Props{PropType: "h1"}}))
}

func TestElement_Accessors(t *testing.T) {
	g, err := BuildElement("g1", ElementGroup, Bound{X: 1, Y: 2, W: 3, H: 4}, "a", "b")
	require.NoError(t, err)

	assert.Equal(t, "g1", g.ID())
	assert.Equal(t, ElementGroup, g.Type())
	assert.Equal(t, []string{"a", "b"}, g.Children())
	b, ok := g.Bound()
	require.True(t, ok)
	assert.Equal(t, Bound{X: 1, Y: 2, W: 3, H: 4}, b)

	g2, err := g.WithChildren([]string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, g2.Children())
	assert.Equal(t, []string{"a", "b"}, g.Children(), "original must be untouched")
}

func TestElement_ObjectChildren(t *testing.T) {
	e, err := NewElement(`{"id":"g","type":"group","children":{"a":true,"b":true}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, e.Children())
}

func TestElement_Connector(t *testing.T) {
	c, err := NewElement(`{"id":"c","type":"connector","source":{"id":"s"},"target":{"id":"t","position":[1,2]}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"s", "t"}, c.References())

	c2, err := c.WithEndpoint(EndpointTarget, "")
	require.NoError(t, err)
	assert.Equal(t, "", c2.Endpoint(EndpointTarget))
	assert.Contains(t, c2.Raw(), `"position":[1,2]`)
}

func TestNewElement_Invalid(t *testing.T) {
	for _, raw := range []string{`{`, `[]`, `{"type":"shape"}`, `{"id":"x","type":"blob"}`} {
		_, err := NewElement(raw)
		assert.Error(t, err, raw)
	}
}
