package streetgraph

import (
	"github.com/golang/geo/r2"

	"github.com/voidshard/streetgraph/internal/face"
	"github.com/voidshard/streetgraph/internal/graph"
	"github.com/voidshard/streetgraph/internal/lots"
)

// ringEpsilon is how far apart two district vertices may be and still
// count as the same point
const ringEpsilon = 1e-6

// createDistrictUp traces the face on the clicked side of the hovered
// street & stores it as a district
func (e *Editor) createDistrictUp(pos r2.Point, btn MouseButton) {
	if btn != ButtonLeft {
		return
	}
	e.hoverStreet(pos)
	if !e.mode.hovering {
		return
	}
	street := e.mode.hover

	side, err := e.graph.SideOfPosition(street, pos)
	if err != nil {
		return
	}

	polygon, ok := face.Trace(e.graph, street, side)
	if !ok {
		tracesTotal.WithLabelValues("open").Inc()
		e.log.Debug("street side does not enclose a district", "street", street, "side", side.String())
		return
	}
	tracesTotal.WithLabelValues("enclosed").Inc()

	if existing, dup := e.graph.HasRing(polygon, ringEpsilon); dup {
		e.log.Debug("district already exists", "district", existing)
		return
	}

	e.perform(NewCreateDistrict(polygon, e.houses()))
}

// deleteDistrictUp removes the district under the pointer
func (e *Editor) deleteDistrictUp(pos r2.Point, btn MouseButton) {
	if btn != ButtonLeft {
		return
	}
	e.hoverDistrict(pos)
	if !e.mode.hovering {
		return
	}

	id := e.mode.hover
	e.clearHover()

	act, ok := NewDeleteDistrict(e.graph, id)
	if !ok {
		return
	}
	e.perform(act)
}

// TraceAll creates a district for every enclosed face that does not
// already have one, as a single undoable action.
// Returns the number of districts created.
func (e *Editor) TraceAll() int {
	acts := []Action{}
	for _, f := range face.TraceAll(e.graph) {
		tracesTotal.WithLabelValues("enclosed").Inc()
		if _, dup := e.graph.HasRing(f.Polygon, ringEpsilon); dup {
			continue
		}
		acts = append(acts, NewCreateDistrict(f.Polygon, e.houses()))
	}
	if len(acts) == 0 {
		return 0
	}

	err := e.perform(&Batch{Label: "districts for all faces", Actions: acts})
	if err != nil {
		return 0
	}
	return len(acts)
}

// houses returns the house lot options new districts are built with
func (e *Editor) houses() lots.Options {
	return lots.Options{Side: e.cfg.Districts.MinimumHouseSide, Seed: e.houseSeed}
}

// MinimumHouseSide returns the smallest side of a house lot
func (e *Editor) MinimumHouseSide() float64 {
	return lots.Clamp(e.cfg.Districts.MinimumHouseSide)
}

// SetMinimumHouseSide changes the smallest side of a house lot, clamped to
// [MinHouseSide, MaxHouseSide], & rebuilds the lots of every district.
// This is a setting, not an edit, so it is not undoable.
// Returns the side in use.
func (e *Editor) SetMinimumHouseSide(side float64) float64 {
	side = lots.Clamp(side)
	e.cfg.Districts.MinimumHouseSide = side

	opts := e.houses()
	for _, d := range e.graph.Districts() {
		e.graph.SetDistrictLots(d.ID, lots.Subdivide(d.Polygon, d.ID, opts))
	}

	e.log.Debug("house lots rebuilt", "minimum_house_side", side, "districts", e.graph.NumDistricts())
	return side
}

// hoverStreet highlights the street nearest pos, within tolerance
func (e *Editor) hoverStreet(pos r2.Point) {
	id, ok := e.graph.NearestStreet(pos, e.camera.Scale(e.cfg.StreetTolerance), e.previewIDs()...)
	if e.mode.hovering && ok && e.mode.hover == id {
		return
	}
	e.clearHover()
	if !ok {
		return
	}
	if s, _ := e.graph.Street(id); s.State == graph.Normal {
		e.graph.SetStreetState(id, graph.Hover)
	}
	e.mode.hover, e.mode.hovering = id, true
}

// hoverDistrict highlights the district under pos
func (e *Editor) hoverDistrict(pos r2.Point) {
	id, ok := e.graph.DistrictAt(pos)
	if e.mode.hovering && ok && e.mode.hover == id {
		return
	}
	e.clearHover()
	if !ok {
		return
	}
	if d, _ := e.graph.District(id); d.State == graph.Normal {
		e.graph.SetDistrictState(id, graph.Hover)
	}
	e.mode.hover, e.mode.hovering = id, true
}

// hoverIntersection highlights the intersection nearest pos, within tolerance
func (e *Editor) hoverIntersection(pos r2.Point) {
	id, ok := e.graph.NearestIntersection(pos, e.camera.Scale(e.cfg.IntersectionTolerance), e.previewIDs()...)
	if e.mode.hovering && ok && e.mode.hover == id {
		return
	}
	e.clearHover()
	if !ok {
		return
	}
	if i, _ := e.graph.Intersection(id); i.State == graph.Normal {
		e.graph.SetIntersectionState(id, graph.Hover)
	}
	e.mode.hover, e.mode.hovering = id, true
}

// clearHover returns the hovered element (if any) to Normal
func (e *Editor) clearHover() {
	if !e.mode.hovering {
		return
	}
	id := e.mode.hover
	e.mode.hovering = false

	switch e.mode.kind {
	case ModeDeleteStreet, ModeCreateDistrict:
		if s, ok := e.graph.Street(id); ok && s.State == graph.Hover {
			e.graph.SetStreetState(id, graph.Normal)
		}
	case ModeDeleteDistrict:
		if d, ok := e.graph.District(id); ok && d.State == graph.Hover {
			e.graph.SetDistrictState(id, graph.Normal)
		}
	default:
		if i, ok := e.graph.Intersection(id); ok && i.State == graph.Hover {
			e.graph.SetIntersectionState(id, graph.Normal)
		}
	}
}
