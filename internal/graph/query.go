package graph

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/voidshard/streetgraph/internal/line"
)

// NearestIntersection returns the closest intersection to pos that is at
// most maxDistance away, ignoring any id in exclude.
// Equal distances resolve to the earliest inserted intersection.
func (g *Graph) NearestIntersection(pos r2.Point, maxDistance float64, exclude ...uuid.UUID) (uuid.UUID, bool) {
	g.index.rebuild(g.intersections)

	best := uuid.Nil
	bestDist := math.Inf(1)
	var bestSeq uint64

	for _, id := range g.index.within(pos, maxDistance) {
		if excluded(id, exclude) {
			continue
		}
		i := g.intersections[id]
		d := i.Position.Sub(pos).Norm()
		if d < bestDist || (d == bestDist && i.seq < bestSeq) {
			best, bestDist, bestSeq = id, d, i.seq
		}
	}

	return best, best != uuid.Nil
}

// NearestStreet returns the street whose centre line is closest to pos,
// within maxDistance, ignoring any id in exclude.
func (g *Graph) NearestStreet(pos r2.Point, maxDistance float64, exclude ...uuid.UUID) (uuid.UUID, bool) {
	best := uuid.Nil
	bestDist := math.Inf(1)
	var bestSeq uint64

	for _, s := range g.streets {
		if excluded(s.ID, exclude) {
			continue
		}
		d := s.Line.Distance(pos)
		if d > maxDistance {
			continue
		}
		if d < bestDist || (d == bestDist && s.seq < bestSeq) {
			best, bestDist, bestSeq = s.ID, d, s.seq
		}
	}

	return best, best != uuid.Nil
}

// DistrictAt returns the district containing pos.
// Where districts overlap the most recently added wins.
func (g *Graph) DistrictAt(pos r2.Point) (uuid.UUID, bool) {
	best := uuid.Nil
	var bestSeq uint64
	for _, d := range g.districts {
		if !d.Contains(pos) {
			continue
		}
		if best == uuid.Nil || d.seq > bestSeq {
			best, bestSeq = d.ID, d.seq
		}
	}
	return best, best != uuid.Nil
}

// IntersectionsInRectangle returns the intersections inside the rectangle
// spanned by a & b (edges inclusive), in insertion order.
// The corners may be given in any order.
func (g *Graph) IntersectionsInRectangle(a, b r2.Point) []uuid.UUID {
	rect := r2.RectFromPoints(a, b)
	out := []uuid.UUID{}
	for _, i := range g.Intersections() {
		if rect.ContainsPoint(i.Position) {
			out = append(out, i.ID)
		}
	}
	return out
}

// SideOfPosition returns which side of the street pos lies on.
// Points on the line count as Right.
func (g *Graph) SideOfPosition(street uuid.UUID, pos r2.Point) (Side, error) {
	s, ok := g.streets[street]
	if !ok {
		return Left, errors.Wrapf(ErrNotFound, "street %s", street)
	}
	if s.Line.Cross(pos) > 0 {
		return Left, nil
	}
	return Right, nil
}

// IntersectionsWithState returns ids of intersections in the given state,
// in insertion order.
func (g *Graph) IntersectionsWithState(state State) []uuid.UUID {
	out := []uuid.UUID{}
	for _, i := range g.Intersections() {
		if i.State == state {
			out = append(out, i.ID)
		}
	}
	return out
}

// SetIntersectionState sets the state of an intersection, if it exists.
func (g *Graph) SetIntersectionState(id uuid.UUID, state State) bool {
	i, ok := g.intersections[id]
	if ok {
		i.State = state
	}
	return ok
}

// SetStreetState sets the state of a street, if it exists.
func (g *Graph) SetStreetState(id uuid.UUID, state State) bool {
	s, ok := g.streets[id]
	if ok {
		s.State = state
	}
	return ok
}

// SetDistrictState sets the state of a district, if it exists.
func (g *Graph) SetDistrictState(id uuid.UUID, state State) bool {
	d, ok := g.districts[id]
	if ok {
		d.State = state
	}
	return ok
}

// ResetStates sets every element back to Normal.
func (g *Graph) ResetStates() {
	for _, i := range g.intersections {
		i.State = Normal
	}
	for _, s := range g.streets {
		s.State = Normal
	}
	for _, d := range g.districts {
		d.State = Normal
	}
}

// HasRing returns if a district with the same ring (any start point,
// same winding) already exists.
func (g *Graph) HasRing(ring []r2.Point, eps float64) (uuid.UUID, bool) {
	for _, d := range g.Districts() {
		if line.SameRing(d.Polygon, normaliseRing(ring), eps) {
			return d.ID, true
		}
	}
	return uuid.Nil, false
}

func excluded(id uuid.UUID, exclude []uuid.UUID) bool {
	for _, e := range exclude {
		if e == id {
			return true
		}
	}
	return false
}
