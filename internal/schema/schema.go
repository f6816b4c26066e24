// Package schema validates block placement and block props.
//
// Every flavour has a Schema that names the parent flavours it may live
// under and the shape of its props. The Registry answers the question the
// drag-and-drop engine asks most: may a block of flavour X become a child
// of a block of flavour Y?
package schema

import (
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/blockdrop/internal/model"
)

// PropKind is the expected dynamic type of a prop value.
type PropKind uint8

const (
	KindString PropKind = iota
	KindBool
	KindNumber
	KindBound
	KindIDSet
)

// String returns the kind name.
func (k PropKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindBound:
		return "bound"
	case KindIDSet:
		return "id set"
	default:
		return "unknown"
	}
}

// PropSpec describes one prop of a flavour.
type PropSpec struct {
	Key      string
	Kind     PropKind
	Required bool
	Enum     []string
}

// Schema describes one flavour.
type Schema struct {
	Flavour model.Flavour
	Parents []model.Flavour
	Props   []PropSpec
}

// AllowsParent reports whether parent may contain blocks of this flavour.
func (s *Schema) AllowsParent(parent model.Flavour) bool {
	return slices.Contains(s.Parents, parent)
}

// Validator is the read side of the schema service used by the engine.
type Validator interface {
	// SafeValidate returns nil when flavour may be a child of parent.
	SafeValidate(flavour, parent model.Flavour) error
}

// Registry holds one Schema per flavour.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	schemas map[model.Flavour]*Schema
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{schemas: make(map[model.Flavour]*Schema)}
}

// Register adds or replaces the schema for s.Flavour.
func (r *Registry) Register(s *Schema) error {
	if s == nil || !s.Flavour.Valid() {
		return fmt.Errorf("register: %w", model.ErrUnknownFlavour)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[s.Flavour] = s
	return nil
}

// Get returns the schema for a flavour.
func (r *Registry) Get(f model.Flavour) (*Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[f]
	return s, ok
}

// SafeValidate checks that flavour may be placed under parent.
func (r *Registry) SafeValidate(flavour, parent model.Flavour) error {
	s, ok := r.Get(flavour)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFlavour, flavour)
	}
	if !s.AllowsParent(parent) {
		return fmt.Errorf("%w: %s under %s", ErrParentNotAllowed, flavour, parent)
	}
	return nil
}

// ValidateProps checks props against the flavour's prop specs.
// Unknown props are allowed.
func (r *Registry) ValidateProps(flavour model.Flavour, props model.Props) error {
	s, ok := r.Get(flavour)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFlavour, flavour)
	}

	errs := &ValidationErrors{}
	name := flavour.String()
	for _, spec := range s.Props {
		v, present := props[spec.Key]
		if !present || v == nil {
			if spec.Required {
				errs.Add(name, spec.Key, "required prop is missing", nil)
			}
			continue
		}
		validateValue(name, spec, v, errs)
	}
	return errs.AsError()
}

func validateValue(flavour string, spec PropSpec, v any, errs *ValidationErrors) {
	switch spec.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			errs.Add(flavour, spec.Key, fmt.Sprintf("expected string, got %T", v), v)
			return
		}
		if len(spec.Enum) > 0 && !slices.Contains(spec.Enum, s) {
			errs.Add(flavour, spec.Key, fmt.Sprintf("value %q is not one of %v", s, spec.Enum), v)
		}
	case KindBool:
		if _, ok := v.(bool); !ok {
			errs.Add(flavour, spec.Key, fmt.Sprintf("expected bool, got %T", v), v)
		}
	case KindNumber:
		switch v.(type) {
		case int, int64, float64, float32:
		default:
			errs.Add(flavour, spec.Key, fmt.Sprintf("expected number, got %T", v), v)
		}
	case KindBound:
		s, ok := v.(string)
		if !ok {
			errs.Add(flavour, spec.Key, fmt.Sprintf("expected bound string, got %T", v), v)
			return
		}
		if _, err := model.ParseBound(s); err != nil {
			errs.Add(flavour, spec.Key, err.Error(), v)
		}
	case KindIDSet:
		switch v.(type) {
		case []string, []any, map[string]any:
		default:
			errs.Add(flavour, spec.Key, fmt.Sprintf("expected id set, got %T", v), v)
		}
	}
}
