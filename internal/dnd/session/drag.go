package session

import "github.com/dshills/blockdrop/internal/model"

// dragTracker tracks the pointer between press and release.
type dragTracker struct {
	// pressed indicates the pointer is down.
	pressed bool

	// startPos is where the pointer went down.
	startPos model.Point

	// currentPos is the latest pointer position.
	currentPos model.Point
}

// start records a pointer-down.
func (t *dragTracker) start(pos model.Point) {
	t.pressed = true
	t.startPos = pos
	t.currentPos = pos
}

// update records a pointer move.
func (t *dragTracker) update(pos model.Point) {
	if t.pressed {
		t.currentPos = pos
	}
}

// end clears the tracker.
func (t *dragTracker) end() {
	t.pressed = false
	t.startPos = model.Point{}
	t.currentPos = model.Point{}
}

// getDelta returns the distance travelled from start.
func (t *dragTracker) getDelta() model.Point {
	return t.currentPos.Sub(t.startPos)
}

// travelled returns the Manhattan distance travelled from start.
func (t *dragTracker) travelled() float64 {
	d := t.getDelta()
	if d.X < 0 {
		d.X = -d.X
	}
	if d.Y < 0 {
		d.Y = -d.Y
	}
	return d.X + d.Y
}
