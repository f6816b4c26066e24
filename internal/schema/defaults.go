package schema

import "github.com/dshills/blockdrop/internal/model"

var (
	textParents    = []model.Flavour{model.FlavourNote, model.FlavourParagraph, model.FlavourList}
	cardParents    = []model.Flavour{model.FlavourNote, model.FlavourSurface}
	headingTypes   = []string{"text", "quote", "h1", "h2", "h3", "h4", "h5", "h6"}
	listTypes      = []string{"bulleted", "numbered", "todo", "toggle"}
	boundProp      = PropSpec{Key: model.PropXYWH, Kind: KindBound}
	collapsedProp  = PropSpec{Key: model.PropCollapsed, Kind: KindBool}
	textProp       = PropSpec{Key: model.PropText, Kind: KindString}
	membersProp    = PropSpec{Key: model.PropChildElementIDs, Kind: KindIDSet}
	referenceProps = []PropSpec{
		boundProp,
		{Key: model.PropReference, Kind: KindString, Required: true},
		{Key: model.PropRefFlavour, Kind: KindString},
	}
)

// DefaultSchemas returns the built-in schema set.
func DefaultSchemas() []*Schema {
	return []*Schema{
		{Flavour: model.FlavourPage},
		{Flavour: model.FlavourSurface, Parents: []model.Flavour{model.FlavourPage}},
		{
			Flavour: model.FlavourNote,
			Parents: []model.Flavour{model.FlavourPage},
			Props:   []PropSpec{boundProp},
		},
		{
			Flavour: model.FlavourParagraph,
			Parents: textParents,
			Props: []PropSpec{
				textProp,
				{Key: model.PropType, Kind: KindString, Enum: headingTypes},
				collapsedProp,
			},
		},
		{
			Flavour: model.FlavourList,
			Parents: textParents,
			Props: []PropSpec{
				textProp,
				{Key: model.PropType, Kind: KindString, Enum: listTypes},
				{Key: "checked", Kind: KindBool},
				collapsedProp,
			},
		},
		{Flavour: model.FlavourCode, Parents: textParents, Props: []PropSpec{textProp, {Key: "language", Kind: KindString}}},
		{Flavour: model.FlavourDivider, Parents: textParents},
		{
			Flavour: model.FlavourImage,
			Parents: []model.Flavour{model.FlavourNote, model.FlavourParagraph, model.FlavourList, model.FlavourSurface},
			Props:   []PropSpec{boundProp, {Key: "sourceId", Kind: KindString}},
		},
		{Flavour: model.FlavourAttachment, Parents: cardParents, Props: []PropSpec{boundProp, {Key: "name", Kind: KindString}}},
		{Flavour: model.FlavourBookmark, Parents: cardParents, Props: []PropSpec{boundProp, {Key: "url", Kind: KindString}}},
		{Flavour: model.FlavourEmbed, Parents: cardParents, Props: []PropSpec{boundProp, {Key: "url", Kind: KindString}}},
		{
			Flavour: model.FlavourLinkedDoc,
			Parents: cardParents,
			Props:   []PropSpec{boundProp, {Key: model.PropPageID, Kind: KindString, Required: true}},
		},
		{Flavour: model.FlavourSurfaceRef, Parents: []model.Flavour{model.FlavourNote}, Props: referenceProps},
		{Flavour: model.FlavourDatabase, Parents: []model.Flavour{model.FlavourNote}, Props: []PropSpec{{Key: "title", Kind: KindString}}},
		{
			Flavour: model.FlavourFrame,
			Parents: []model.Flavour{model.FlavourSurface},
			Props:   []PropSpec{boundProp, {Key: "title", Kind: KindString}, membersProp},
		},
		{Flavour: model.FlavourEdgelessText, Parents: []model.Flavour{model.FlavourSurface}, Props: []PropSpec{boundProp}},
	}
}

// Default returns a registry populated with DefaultSchemas.
func Default() *Registry {
	r := NewRegistry()
	for _, s := range DefaultSchemas() {
		// DefaultSchemas only holds valid flavours.
		_ = r.Register(s)
	}
	return r
}
