package graph

import (
	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/unixpickle/model3d/model2d"
)

// spatialIndex is a lazily rebuilt CoordTree over intersection positions.
// Any mutation that moves, adds or removes an intersection marks it dirty.
type spatialIndex struct {
	dirty   bool
	tree    *model2d.CoordTree
	coords  int
	byCoord map[model2d.Coord][]uuid.UUID
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{dirty: true}
}

func (s *spatialIndex) invalidate() {
	s.dirty = true
}

// rebuild the tree from the current intersections, if required.
// Several intersections may share a position; the tree holds each
// coordinate once and byCoord fans back out to ids.
func (s *spatialIndex) rebuild(intersections map[uuid.UUID]*Intersection) {
	if !s.dirty {
		return
	}
	s.dirty = false
	s.byCoord = map[model2d.Coord][]uuid.UUID{}

	unique := []model2d.Coord{}
	for id, i := range intersections {
		c := toCoord(i.Position)
		if _, ok := s.byCoord[c]; !ok {
			unique = append(unique, c)
		}
		s.byCoord[c] = append(s.byCoord[c], id)
	}

	s.coords = len(unique)
	if len(unique) == 0 {
		s.tree = nil
		return
	}
	s.tree = model2d.NewCoordTree(unique)
}

// within returns every intersection id no further than max from pos.
func (s *spatialIndex) within(pos r2.Point, max float64) []uuid.UUID {
	if s.tree == nil || max < 0 {
		return nil
	}

	c := toCoord(pos)
	found := []model2d.Coord{}
	for k := 4; ; k *= 2 {
		if k > s.coords {
			k = s.coords
		}
		found = s.tree.KNN(k, c)
		if len(found) < k || k == s.coords {
			break
		}
		if found[len(found)-1].Dist(c) > max {
			break
		}
	}

	ids := []uuid.UUID{}
	for _, f := range found {
		if f.Dist(c) > max {
			continue
		}
		ids = append(ids, s.byCoord[f]...)
	}
	return ids
}

func toCoord(p r2.Point) model2d.Coord {
	return model2d.Coord{X: p.X, Y: p.Y}
}
