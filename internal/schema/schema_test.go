package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/blockdrop/internal/model"
)

func TestDefault_CoversEveryFlavour(t *testing.T) {
	r := Default()
	for _, f := range model.Flavours() {
		_, ok := r.Get(f)
		assert.True(t, ok, "missing schema for %s", f)
	}
}

func TestRegistry_SafeValidate(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		child   model.Flavour
		parent  model.Flavour
		wantErr error
	}{
		{"paragraph in note", model.FlavourParagraph, model.FlavourNote, nil},
		{"list in list", model.FlavourList, model.FlavourList, nil},
		{"note in page", model.FlavourNote, model.FlavourPage, nil},
		{"note in note", model.FlavourNote, model.FlavourNote, ErrParentNotAllowed},
		{"surface in note", model.FlavourSurface, model.FlavourNote, ErrParentNotAllowed},
		{"frame in surface", model.FlavourFrame, model.FlavourSurface, nil},
		{"paragraph in surface", model.FlavourParagraph, model.FlavourSurface, ErrParentNotAllowed},
		{"surface-ref in note", model.FlavourSurfaceRef, model.FlavourNote, nil},
		{"database in list", model.FlavourDatabase, model.FlavourList, ErrParentNotAllowed},
		{"page anywhere", model.FlavourPage, model.FlavourNote, ErrParentNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.SafeValidate(tt.child, tt.parent)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestRegistry_SafeValidate_Unregistered(t *testing.T) {
	r := NewRegistry()
	err := r.SafeValidate(model.FlavourNote, model.FlavourPage)
	assert.ErrorIs(t, err, ErrUnknownFlavour)
}

func TestRegistry_Register_Invalid(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&Schema{Flavour: model.FlavourUnknown}))
}

func TestRegistry_ValidateProps(t *testing.T) {
	r := Default()

	require.NoError(t, r.ValidateProps(model.FlavourParagraph, model.Props{"type": "h1", "text": "x"}))

	err := r.ValidateProps(model.FlavourParagraph, model.Props{"type": "h9", "collapsed": "yes"})
	require.Error(t, err)
	var verrs *ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs.Errors, 2)
	assert.Len(t, verrs.ForProp("type"), 1)
	assert.Len(t, verrs.ForProp("collapsed"), 1)
	assert.Empty(t, verrs.ForProp("text"))

	err = r.ValidateProps(model.FlavourSurfaceRef, model.Props{})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "surface-ref.reference: required prop is missing", verrs.Error())

	err = r.ValidateProps(model.FlavourFrame, model.Props{"xywh": "[0,0]"})
	assert.Error(t, err)
}
