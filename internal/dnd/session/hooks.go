package session

import (
	"github.com/dshills/blockdrop/internal/dnd/mutate"
	"github.com/dshills/blockdrop/internal/dnd/target"
	"github.com/dshills/blockdrop/internal/model"
)

// Indicator draws the drop indicator.
type Indicator interface {
	Show(d target.Decision)
	Clear()
}

// Dimmer changes the opacity of dragged content.
type Dimmer interface {
	Dim(ids []string)
	Restore(ids []string)
}

// SelectionLock freezes the selection for the duration of a drag.
type SelectionLock interface {
	Lock()
	Unlock()
}

// AutoScroller scrolls the container when the pointer nears its edge.
type AutoScroller interface {
	AutoScroll(p model.Point)
}

// Viewport converts viewport coordinates to model coordinates.
type Viewport interface {
	ToModel(p model.Point) model.Point
}

// Outcome is reported when a gesture ends.
type Outcome struct {
	State    State
	Decision *target.Decision
	Result   mutate.Result
}

// Hooks are the presentation callbacks of a controller. Nil hooks are
// skipped.
type Hooks struct {
	Indicator     Indicator
	Dimmer        Dimmer
	SelectionLock SelectionLock
	AutoScroller  AutoScroller
	OnDrop        func(Outcome)
}

// identityViewport is used when no viewport is configured.
type identityViewport struct{}

func (identityViewport) ToModel(p model.Point) model.Point {
	return p
}
