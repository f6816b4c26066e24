package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PropXYWH is the prop key that carries a serialized Bound.
const PropXYWH = "xywh"

// Point is a position in model or viewport coordinates.
type Point struct {
	X float64
	Y float64
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Bound is an axis-aligned rectangle.
type Bound struct {
	X float64
	Y float64
	W float64
	H float64
}

// ParseBound parses the "[x,y,w,h]" form.
func ParseBound(s string) (Bound, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return Bound{}, fmt.Errorf("%w: %q", ErrInvalidBound, s)
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != 4 {
		return Bound{}, fmt.Errorf("%w: %q", ErrInvalidBound, s)
	}
	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bound{}, fmt.Errorf("%w: %q", ErrInvalidBound, s)
		}
		vals[i] = v
	}
	return Bound{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}, nil
}

// String formats the bound as "[x,y,w,h]".
func (b Bound) String() string {
	return "[" + formatFloat(b.X) + "," + formatFloat(b.Y) + "," +
		formatFloat(b.W) + "," + formatFloat(b.H) + "]"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Origin returns the top-left corner.
func (b Bound) Origin() Point {
	return Point{X: b.X, Y: b.Y}
}

// Right returns the x coordinate of the right edge.
func (b Bound) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y coordinate of the bottom edge.
func (b Bound) Bottom() float64 {
	return b.Y + b.H
}

// Area returns W×H.
func (b Bound) Area() float64 {
	return b.W * b.H
}

// Contains reports whether p lies within the bound, edges inclusive.
func (b Bound) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// Union returns the smallest bound enclosing b and o.
func (b Bound) Union(o Bound) Bound {
	x := min(b.X, o.X)
	y := min(b.Y, o.Y)
	return Bound{
		X: x,
		Y: y,
		W: max(b.Right(), o.Right()) - x,
		H: max(b.Bottom(), o.Bottom()) - y,
	}
}

// Translate returns the bound moved by d.
func (b Bound) Translate(d Point) Bound {
	b.X += d.X
	b.Y += d.Y
	return b
}

// MoveTo returns the bound with its top-left corner at p.
func (b Bound) MoveTo(p Point) Bound {
	b.X = p.X
	b.Y = p.Y
	return b
}

// Resize returns the bound with the given width and height.
func (b Bound) Resize(w, h float64) Bound {
	b.W = w
	b.H = h
	return b
}

// UnionAll returns the union of all bounds, or false if there are none.
func UnionAll(bounds []Bound) (Bound, bool) {
	if len(bounds) == 0 {
		return Bound{}, false
	}
	out := bounds[0]
	for _, b := range bounds[1:] {
		out = out.Union(b)
	}
	return out, true
}
