package model

import "fmt"

// Flavour identifies the type of a block.
type Flavour uint8

const (
	// FlavourUnknown is the zero value and never valid in a document.
	FlavourUnknown Flavour = iota
	// FlavourPage is the document root.
	FlavourPage
	// FlavourSurface is the container that owns canvas elements.
	FlavourSurface
	// FlavourNote is the note-level container of page content.
	FlavourNote
	// FlavourParagraph is a text block; headings are paragraphs of type h1..h6.
	FlavourParagraph
	// FlavourList is a list item. List items nest other list items.
	FlavourList
	// FlavourCode is a code block.
	FlavourCode
	// FlavourDivider is a horizontal rule.
	FlavourDivider
	// FlavourImage is an image block.
	FlavourImage
	// FlavourAttachment is a file attachment card.
	FlavourAttachment
	// FlavourBookmark is a link preview card.
	FlavourBookmark
	// FlavourEmbed is an embedded external resource card.
	FlavourEmbed
	// FlavourLinkedDoc is a card linking to another document.
	FlavourLinkedDoc
	// FlavourSurfaceRef is a card referencing a member of a canvas.
	FlavourSurfaceRef
	// FlavourDatabase is a database block. It never accepts structural drops.
	FlavourDatabase
	// FlavourFrame is a canvas frame that owns a set of members.
	FlavourFrame
	// FlavourEdgelessText is a free-standing text block on the canvas.
	FlavourEdgelessText
)

var flavourNames = [...]string{
	FlavourUnknown:      "unknown",
	FlavourPage:         "page",
	FlavourSurface:      "surface",
	FlavourNote:         "note",
	FlavourParagraph:    "paragraph",
	FlavourList:         "list",
	FlavourCode:         "code",
	FlavourDivider:      "divider",
	FlavourImage:        "image",
	FlavourAttachment:   "attachment",
	FlavourBookmark:     "bookmark",
	FlavourEmbed:        "embed",
	FlavourLinkedDoc:    "linked-doc",
	FlavourSurfaceRef:   "surface-ref",
	FlavourDatabase:     "database",
	FlavourFrame:        "frame",
	FlavourEdgelessText: "edgeless-text",
}

// Role classifies a flavour for placement and merge policy.
type Role uint8

const (
	RoleNone Role = iota
	RoleRoot
	RoleSurface
	RoleNote
	RoleContent
	RoleCard
	RoleDatabase
	RoleCanvas
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleRoot:
		return "root"
	case RoleSurface:
		return "surface"
	case RoleNote:
		return "note"
	case RoleContent:
		return "content"
	case RoleCard:
		return "card"
	case RoleDatabase:
		return "database"
	case RoleCanvas:
		return "canvas"
	default:
		return "none"
	}
}

// Flavours returns every known flavour in declaration order.
func Flavours() []Flavour {
	out := make([]Flavour, 0, len(flavourNames)-1)
	for f := FlavourPage; int(f) < len(flavourNames); f++ {
		out = append(out, f)
	}
	return out
}

// ParseFlavour converts a flavour name into a Flavour.
func ParseFlavour(s string) (Flavour, error) {
	for i, name := range flavourNames {
		if i == int(FlavourUnknown) {
			continue
		}
		if name == s {
			return Flavour(i), nil
		}
	}
	return FlavourUnknown, fmt.Errorf("%w: %q", ErrUnknownFlavour, s)
}

// String returns the flavour name.
func (f Flavour) String() string {
	if int(f) < len(flavourNames) {
		return flavourNames[f]
	}
	return flavourNames[FlavourUnknown]
}

// Valid reports whether f is a known flavour.
func (f Flavour) Valid() bool {
	return f != FlavourUnknown && int(f) < len(flavourNames)
}

// Role returns the policy role of the flavour.
func (f Flavour) Role() Role {
	switch f {
	case FlavourPage:
		return RoleRoot
	case FlavourSurface:
		return RoleSurface
	case FlavourNote:
		return RoleNote
	case FlavourParagraph, FlavourList, FlavourCode, FlavourDivider, FlavourImage:
		return RoleContent
	case FlavourAttachment, FlavourBookmark, FlavourEmbed, FlavourLinkedDoc, FlavourSurfaceRef:
		return RoleCard
	case FlavourDatabase:
		return RoleDatabase
	case FlavourFrame, FlavourEdgelessText:
		return RoleCanvas
	default:
		return RoleNone
	}
}

// IsNoteLike reports whether blocks of this flavour are note-level containers.
func (f Flavour) IsNoteLike() bool {
	return f.Role() == RoleNote
}

// IsCard reports whether the flavour renders as a fixed-size card.
func (f Flavour) IsCard() bool {
	return f.Role() == RoleCard
}

// IsDatabase reports whether the flavour is a database block.
func (f Flavour) IsDatabase() bool {
	return f.Role() == RoleDatabase
}

// IsGroupLike reports whether the block owns a set of member ids in its props.
func (f Flavour) IsGroupLike() bool {
	return f == FlavourFrame
}

// MarshalText implements encoding.TextMarshaler.
func (f Flavour) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFlavour, f)
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Flavour) UnmarshalText(text []byte) error {
	parsed, err := ParseFlavour(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ElementType identifies the type of a canvas element.
type ElementType string

// Known canvas element types.
const (
	ElementShape     ElementType = "shape"
	ElementConnector ElementType = "connector"
	ElementText      ElementType = "text"
	ElementBrush     ElementType = "brush"
	ElementGroup     ElementType = "group"
	ElementMindmap   ElementType = "mindmap"
)

// ParseElementType validates an element type name.
func ParseElementType(s string) (ElementType, error) {
	switch t := ElementType(s); t {
	case ElementShape, ElementConnector, ElementText, ElementBrush, ElementGroup, ElementMindmap:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownElementType, s)
}

// IsGroupLike reports whether the element owns a set of child element ids.
func (t ElementType) IsGroupLike() bool {
	return t == ElementGroup || t == ElementMindmap
}

// HasEndpoints reports whether the element references other elements by id.
func (t ElementType) HasEndpoints() bool {
	return t == ElementConnector
}
