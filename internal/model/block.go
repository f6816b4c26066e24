package model

import (
	"slices"
	"strings"
)

// Props is the property bag of a block.
type Props map[string]any

// Well-known prop keys.
const (
	PropText            = "text"
	PropType            = "type"
	PropCollapsed       = "collapsed"
	PropChildElementIDs = "childElementIds"
	PropReference       = "reference"
	PropRefFlavour      = "refFlavour"
	PropPageID          = "pageId"
)

// Block is a node of the page tree.
type Block struct {
	ID       string
	Flavour  Flavour
	Props    Props
	Children []string
	Parent   string
}

// IsRoot reports whether the block has no parent.
func (b *Block) IsRoot() bool {
	return b.Parent == ""
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	out := *b
	out.Props = b.Props.Clone()
	out.Children = append([]string(nil), b.Children...)
	return &out
}

// Bound returns the block's spatial bound if it carries one.
func (p Props) Bound() (Bound, bool) {
	raw, ok := p[PropXYWH].(string)
	if !ok {
		return Bound{}, false
	}
	b, err := ParseBound(raw)
	if err != nil {
		return Bound{}, false
	}
	return b, true
}

// SetBound stores b under the xywh key.
func (p Props) SetBound(b Bound) {
	p[PropXYWH] = b.String()
}

// String returns a string prop or "".
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Bool returns a bool prop or false.
func (p Props) Bool(key string) bool {
	v, _ := p[key].(bool)
	return v
}

// IDList reads a set of ids stored either as a list or as a map of id to bool.
// Map-form ids are returned sorted for a deterministic order.
func (p Props) IDList(key string) []string {
	switch v := p[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		out := make([]string, 0, len(v))
		for id := range v {
			out = append(out, id)
		}
		slices.Sort(out)
		return out
	}
	return nil
}

// Clone returns a deep copy of the props.
func (p Props) Clone() Props {
	if p == nil {
		return Props{}
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, item := range t {
			m[k] = cloneValue(item)
		}
		return m
	case Props:
		return t.Clone()
	case []any:
		s := make([]any, len(t))
		for i, item := range t {
			s[i] = cloneValue(item)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// HeadingLevel returns 1..6 for heading paragraphs and 0 otherwise.
func HeadingLevel(b *Block) int {
	if b == nil || b.Flavour != FlavourParagraph {
		return 0
	}
	t := b.Props.String(PropType)
	if len(t) == 2 && strings.HasPrefix(t, "h") && t[1] >= '1' && t[1] <= '6' {
		return int(t[1] - '0')
	}
	return 0
}
