package voronoi

import (
	"github.com/golang/geo/r2"
	"github.com/unixpickle/model3d/model2d"
)

// Voronoi is a repaired voronoi diagram over a bounding rectangle
type Voronoi struct {
	vg VoronoiDiagram
}

// newVoronoi builds a voronoi diagram using the given builder information
func newVoronoi(b *Builder) *Voronoi {
	me := &Voronoi{}

	points := make([]model2d.Coord, len(b.sites))
	for i, s := range b.sites {
		points[i] = model2d.Coord{X: s.X, Y: s.Y}
	}

	me.vg = VoronoiCells(
		model2d.Coord{X: b.bounds.X.Lo, Y: b.bounds.Y.Lo},
		model2d.Coord{X: b.bounds.X.Hi, Y: b.bounds.Y.Hi},
		points,
	)
	me.vg.Repair(1e-8)

	return me
}

// Len returns the number of cells
func (v *Voronoi) Len() int {
	return len(v.vg)
}

// Cell returns the centre & the ordered ring of vertices of cell i
func (v *Voronoi) Cell(i int) (r2.Point, []r2.Point) {
	if i < 0 || i >= len(v.vg) {
		return r2.Point{}, nil
	}
	cell := v.vg[i]
	ring := make([]r2.Point, 0, len(cell.Edges))
	for _, e := range cell.Edges {
		if e == nil {
			continue
		}
		ring = append(ring, toPoint(e[0]))
	}
	return toPoint(cell.Center), ring
}

// Segments returns every distinct cell edge once.
// Edges shared by two cells (in either direction) are merged.
func (v *Voronoi) Segments() [][2]r2.Point {
	seen := map[[2]model2d.Coord]bool{}
	out := [][2]r2.Point{}
	for _, cell := range v.vg {
		for _, e := range cell.Edges {
			if e == nil {
				continue
			}
			a, b := e[0], e[1]
			if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
				a, b = b, a
			}
			key := [2]model2d.Coord{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, [2]r2.Point{toPoint(a), toPoint(b)})
		}
	}
	return out
}

func toPoint(c model2d.Coord) r2.Point {
	return r2.Point{X: c.X, Y: c.Y}
}
