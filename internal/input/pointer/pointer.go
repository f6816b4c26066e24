package pointer

import (
	"time"

	"github.com/dshills/blockdrop/internal/model"
)

// Button represents a pointer button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary button.
	ButtonLeft
	// ButtonMiddle is the middle button.
	ButtonMiddle
	// ButtonRight is the secondary button.
	ButtonRight
	// ButtonWheelUp indicates scroll wheel up.
	ButtonWheelUp
	// ButtonWheelDown indicates scroll wheel down.
	ButtonWheelDown
	// ButtonWheelLeft indicates horizontal scroll left.
	ButtonWheelLeft
	// ButtonWheelRight indicates horizontal scroll right.
	ButtonWheelRight
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	case ButtonWheelLeft:
		return "wheel-left"
	case ButtonWheelRight:
		return "wheel-right"
	default:
		return "none"
	}
}

// IsWheel returns true if this is a scroll wheel button.
func (b Button) IsWheel() bool {
	return b == ButtonWheelUp || b == ButtonWheelDown ||
		b == ButtonWheelLeft || b == ButtonWheelRight
}

// Action represents the type of pointer action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates movement with no button held.
	ActionMove
	// ActionDrag indicates movement with a button held.
	ActionDrag
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	default:
		return "none"
	}
}

// ParseAction parses an action name as written by String.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "press", "down":
		return ActionPress, true
	case "release", "up":
		return ActionRelease, true
	case "move":
		return ActionMove, true
	case "drag":
		return ActionDrag, true
	}
	return ActionNone, false
}

// Modifier is a bitmask of keyboard modifiers.
type Modifier uint8

// Modifier bits.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// HasShift returns true if Shift is held.
func (m Modifier) HasShift() bool { return m&ModShift != 0 }

// HasCtrl returns true if Ctrl is held.
func (m Modifier) HasCtrl() bool { return m&ModCtrl != 0 }

// Event is one pointer event in viewport coordinates.
type Event struct {
	Pos       model.Point
	Button    Button
	Action    Action
	Modifiers Modifier
	Timestamp time.Time
}
