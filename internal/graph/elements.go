package graph

import (
	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/line"
)

// State is the interaction state of an element.
type State int

const (
	Normal State = iota
	Hover
	Selected
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Hover:
		return "hover"
	case Selected:
		return "selected"
	default:
		return "unknown"
	}
}

// Side identifies one face of a directed street.
type Side int

const (
	// Left is the side with a positive cross product relative to the
	// street direction (start -> end).
	Left Side = iota
	Right
)

// Opposite returns the other side
func (s Side) Opposite() Side {
	if s == Left {
		return Right
	}
	return Left
}

// String returns the side name
func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Intersection is a graph node.
// Values handed out by the Graph are snapshots; mutate through the Graph.
type Intersection struct {
	ID       uuid.UUID
	Position r2.Point
	State    State

	seq uint64
}

// Street is a graph edge between two intersections.
// Line & Polygon are derived from the endpoint positions and width.
type Street struct {
	ID    uuid.UUID
	Start uuid.UUID
	End   uuid.UUID
	Width float64
	State State

	Line    line.Segment
	Polygon []r2.Point

	seq uint64
}

// Other returns the endpoint of the street that is not v.
func (s *Street) Other(v uuid.UUID) uuid.UUID {
	if s.Start == v {
		return s.End
	}
	return s.Start
}

// Touches returns if v is one of the street endpoints.
func (s *Street) Touches(v uuid.UUID) bool {
	return s.Start == v || s.End == v
}

// copy returns a snapshot safe to hand to callers
func (s *Street) copy() Street {
	c := *s
	c.Polygon = append([]r2.Point(nil), s.Polygon...)
	return c
}

// District is a traced, closed face of the street graph.
// The ring is stored open; the closing edge from last to first is implicit.
type District struct {
	ID      uuid.UUID
	Polygon []r2.Point
	State   State

	// Lots are the house plots the district is split into
	Lots [][]r2.Point

	seq uint64
}

// Contains returns if p is inside the district polygon.
func (d *District) Contains(p r2.Point) bool {
	return line.Contains(d.Polygon, p)
}

// copy returns a snapshot safe to hand to callers
func (d *District) copy() District {
	c := *d
	c.Polygon = append([]r2.Point(nil), d.Polygon...)
	c.Lots = copyRings(d.Lots)
	return c
}

// copyRings deep copies a list of polygons
func copyRings(in [][]r2.Point) [][]r2.Point {
	if in == nil {
		return nil
	}
	out := make([][]r2.Point, len(in))
	for i, r := range in {
		out[i] = append([]r2.Point(nil), r...)
	}
	return out
}

// normaliseRing drops consecutive duplicate points and a trailing point
// that repeats the first.
func normaliseRing(in []r2.Point) []r2.Point {
	out := make([]r2.Point, 0, len(in))
	for _, p := range in {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}
