package target

import (
	"sync"

	"github.com/dshills/blockdrop/internal/model"
)

// Layout reports where blocks are drawn.
type Layout interface {
	// Rect returns the viewport rectangle of a block.
	Rect(id string) (model.Bound, bool)
	// Zoom returns the current canvas zoom factor.
	Zoom() float64
}

// StaticLayout is a Layout backed by a fixed set of rectangles.
type StaticLayout struct {
	mu    sync.RWMutex
	rects map[string]model.Bound
	zoom  float64
}

// NewStaticLayout creates a layout with zoom 1.
func NewStaticLayout(rects map[string]model.Bound) *StaticLayout {
	l := &StaticLayout{rects: make(map[string]model.Bound, len(rects)), zoom: 1}
	for id, r := range rects {
		l.rects[id] = r
	}
	return l
}

// Rect implements Layout.
func (l *StaticLayout) Rect(id string) (model.Bound, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.rects[id]
	return r, ok
}

// Zoom implements Layout.
func (l *StaticLayout) Zoom() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.zoom
}

// Set places a block.
func (l *StaticLayout) Set(id string, r model.Bound) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rects[id] = r
}

// SetZoom changes the zoom factor. Non-positive values are ignored.
func (l *StaticLayout) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zoom = z
}

// HitTest returns the innermost block under p: the smallest rectangle that
// contains it, ties broken by id.
func (l *StaticLayout) HitTest(p model.Point) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var best string
	var bestArea float64
	found := false
	for id, r := range l.rects {
		if !r.Contains(p) {
			continue
		}
		area := r.Area()
		if !found || area < bestArea || (area == bestArea && id < best) {
			best, bestArea, found = id, area, true
		}
	}
	return best, found
}
