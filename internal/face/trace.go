package face

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/graph"
	"github.com/voidshard/streetgraph/internal/line"
)

// minArea below which a closed walk is considered degenerate
const minArea = 1e-9

// Face is an enclosed region found by walking the street graph.
type Face struct {
	Street  uuid.UUID
	Side    graph.Side
	Polygon []r2.Point
}

// halfEdge is one side of one street
type halfEdge struct {
	street uuid.UUID
	side   graph.Side
}

// walker is the state of a face walk
type walker struct {
	street  uuid.UUID
	side    graph.Side
	forward bool
}

// Trace walks the rotation system starting at `street` with the face on
// `side` and returns the polygon of the enclosed face, in walk order.
//
// The walk reports false when it runs into a dead end, loops without coming
// back to the starting street, comes back along the other side of the
// starting street (a bridge) or closes around the unbounded outer face.
func Trace(g *graph.Graph, street uuid.UUID, side graph.Side) ([]r2.Point, bool) {
	points, _, ok := trace(g, street, side)
	return points, ok
}

// TraceAll finds every enclosed face of the graph exactly once, in the
// order of the street & side they were first found from.
func TraceAll(g *graph.Graph) []*Face {
	found := []*Face{}
	seen := map[halfEdge]bool{}

	for _, s := range g.Streets() {
		for _, side := range []graph.Side{graph.Left, graph.Right} {
			if seen[halfEdge{s.ID, side}] {
				continue
			}
			points, walked, ok := trace(g, s.ID, side)
			if !ok {
				continue
			}
			for _, h := range walked {
				seen[h] = true
			}
			found = append(found, &Face{Street: s.ID, Side: side, Polygon: points})
		}
	}

	return found
}

// trace is Trace, also returning the half edges in the walk.
// The walker side is always the side of the street the face lies on, so
// these identify the face whichever way round it was walked.
func trace(g *graph.Graph, street uuid.UUID, side graph.Side) ([]r2.Point, []halfEdge, bool) {
	if _, ok := g.Street(street); !ok {
		return nil, nil, false
	}

	start := walker{street: street, side: side, forward: true}
	cur := start

	visited := map[halfEdge]bool{}
	walked := []halfEdge{}
	points := []r2.Point{}

	for {
		h := halfEdge{cur.street, cur.side}
		if visited[h] {
			return nil, nil, false
		}
		visited[h] = true

		s, _ := g.Street(cur.street)
		var shared uuid.UUID
		if cur.forward {
			points = append(points, s.Line.Start)
			shared = s.End
		} else {
			points = append(points, s.Line.End)
			shared = s.Start
		}

		walked = append(walked, h)

		var (
			next uuid.UUID
			ok   bool
		)
		if cur.forward {
			next, ok = g.RotationNext(cur.street, cur.side)
		} else {
			next, ok = g.RotationPrevious(cur.street, cur.side)
		}
		if !ok {
			return nil, nil, false
		}

		n, _ := g.Street(next)
		if (cur.forward && n.End == shared) || (!cur.forward && n.Start == shared) {
			cur.forward = !cur.forward
			cur.side = cur.side.Opposite()
		}
		cur.street = next

		if cur.street == start.street {
			if cur != start {
				// came back around the far side of the start street
				return nil, nil, false
			}
			break
		}
	}

	if len(points) < 3 {
		return nil, nil, false
	}

	area := line.SignedArea(points)
	if math.Abs(area) < minArea {
		return nil, nil, false
	}
	// a walk with the face on its left winds counter-clockwise; the
	// opposite winding means we walked around the outside of everything
	if (side == graph.Left) != (area > 0) {
		return nil, nil, false
	}

	return points, walked, true
}
