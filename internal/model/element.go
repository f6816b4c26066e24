package model

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Element JSON paths.
const (
	elemID       = "id"
	elemType     = "type"
	elemXYWH     = "xywh"
	elemChildren = "children"
	elemSource   = "source.id"
	elemTarget   = "target.id"
)

// Endpoint selects one end of a connector.
type Endpoint string

// Connector endpoints.
const (
	EndpointSource Endpoint = "source"
	EndpointTarget Endpoint = "target"
)

func (e Endpoint) path() string {
	if e == EndpointTarget {
		return elemTarget
	}
	return elemSource
}

// Element is a canvas element in serialized form.
// The zero value is not a valid element.
type Element struct {
	raw string
}

// NewElement validates raw element JSON.
func NewElement(raw string) (Element, error) {
	if !gjson.Valid(raw) {
		return Element{}, fmt.Errorf("%w: malformed json", ErrInvalidElement)
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return Element{}, fmt.Errorf("%w: not an object", ErrInvalidElement)
	}
	if res.Get(elemID).String() == "" {
		return Element{}, fmt.Errorf("%w: missing id", ErrInvalidElement)
	}
	if _, err := ParseElementType(res.Get(elemType).String()); err != nil {
		return Element{}, err
	}
	return Element{raw: raw}, nil
}

// BuildElement assembles an element from its common fields.
func BuildElement(id string, typ ElementType, bound Bound, children ...string) (Element, error) {
	raw, err := sjson.Set("{}", elemID, id)
	if err != nil {
		return Element{}, err
	}
	if raw, err = sjson.Set(raw, elemType, string(typ)); err != nil {
		return Element{}, err
	}
	if raw, err = sjson.Set(raw, elemXYWH, bound.String()); err != nil {
		return Element{}, err
	}
	if typ.IsGroupLike() {
		if children == nil {
			children = []string{}
		}
		if raw, err = sjson.Set(raw, elemChildren, children); err != nil {
			return Element{}, err
		}
	}
	return NewElement(raw)
}

// Raw returns the serialized element.
func (e Element) Raw() string {
	return e.raw
}

// IsZero reports whether e holds no element.
func (e Element) IsZero() bool {
	return e.raw == ""
}

// ID returns the element id.
func (e Element) ID() string {
	return gjson.Get(e.raw, elemID).String()
}

// Type returns the element type.
func (e Element) Type() ElementType {
	return ElementType(gjson.Get(e.raw, elemType).String())
}

// Bound returns the element's spatial bound if present.
func (e Element) Bound() (Bound, bool) {
	v := gjson.Get(e.raw, elemXYWH)
	if !v.Exists() {
		return Bound{}, false
	}
	b, err := ParseBound(v.String())
	if err != nil {
		return Bound{}, false
	}
	return b, true
}

// Children returns the member ids of a group-like element.
// Both the array form and the {"id": true} object form are accepted.
func (e Element) Children() []string {
	v := gjson.Get(e.raw, elemChildren)
	var out []string
	switch {
	case v.IsArray():
		for _, item := range v.Array() {
			out = append(out, item.String())
		}
	case v.IsObject():
		v.ForEach(func(key, _ gjson.Result) bool {
			out = append(out, key.String())
			return true
		})
	}
	return out
}

// Endpoint returns the element id referenced by a connector endpoint.
func (e Element) Endpoint(which Endpoint) string {
	return gjson.Get(e.raw, which.path()).String()
}

// References returns every element id this element points at:
// group members first, then connector endpoints.
func (e Element) References() []string {
	refs := e.Children()
	if e.Type().HasEndpoints() {
		for _, which := range []Endpoint{EndpointSource, EndpointTarget} {
			if id := e.Endpoint(which); id != "" {
				refs = append(refs, id)
			}
		}
	}
	return refs
}

// WithID returns a copy carrying a new id.
func (e Element) WithID(id string) (Element, error) {
	return e.set(elemID, id)
}

// WithBound returns a copy carrying a new bound.
func (e Element) WithBound(b Bound) (Element, error) {
	return e.set(elemXYWH, b.String())
}

// WithChildren returns a copy whose member set is exactly ids.
func (e Element) WithChildren(ids []string) (Element, error) {
	if ids == nil {
		ids = []string{}
	}
	return e.set(elemChildren, ids)
}

// WithEndpoint returns a copy whose endpoint references id.
// An empty id removes the reference and keeps any free position.
func (e Element) WithEndpoint(which Endpoint, id string) (Element, error) {
	if id == "" {
		raw, err := sjson.Delete(e.raw, which.path())
		if err != nil {
			return Element{}, err
		}
		return Element{raw: raw}, nil
	}
	return e.set(which.path(), id)
}

func (e Element) set(path string, value any) (Element, error) {
	raw, err := sjson.Set(e.raw, path, value)
	if err != nil {
		return Element{}, fmt.Errorf("set %s: %w", path, err)
	}
	return Element{raw: raw}, nil
}

// MarshalJSON emits the raw element.
func (e Element) MarshalJSON() ([]byte, error) {
	if e.raw == "" {
		return []byte("null"), nil
	}
	return []byte(e.raw), nil
}

// UnmarshalJSON validates and stores the raw element.
func (e *Element) UnmarshalJSON(data []byte) error {
	parsed, err := NewElement(string(data))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
