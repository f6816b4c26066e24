package mutate

import (
	"github.com/dshills/blockdrop/internal/model"
	"github.com/dshills/blockdrop/internal/snapshot"
)

// SpatialMember is a snapshot member carrying a bound.
type SpatialMember struct {
	ID string
	// Type is the block flavour or the element type.
	Type  string
	Bound model.Bound
}

// SpatialMembers lists every member with a bound: blocks in pre-order, then
// surface elements.
func SpatialMembers(s *snapshot.Snapshot) []SpatialMember {
	var out []SpatialMember
	var elems []model.Element
	s.Walk(func(b *snapshot.BlockSnapshot, _ int) bool {
		if bound, ok := b.Props.Bound(); ok {
			out = append(out, SpatialMember{ID: b.ID, Type: b.Flavour.String(), Bound: bound})
		}
		elems = append(elems, b.Elements...)
		return true
	})
	for _, e := range elems {
		if bound, ok := e.Bound(); ok {
			out = append(out, SpatialMember{ID: e.ID(), Type: string(e.Type()), Bound: bound})
		}
	}
	return out
}

// LargestMember returns the member with the greatest area. Ties keep the
// earliest member. Members without area never win.
func LargestMember(s *snapshot.Snapshot) (SpatialMember, bool) {
	var best SpatialMember
	bestArea := 0.0
	found := false
	for _, m := range SpatialMembers(s) {
		if area := m.Bound.Area(); area > bestArea {
			best, bestArea, found = m, area, true
		}
	}
	return best, found
}
