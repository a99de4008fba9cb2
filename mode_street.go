package streetgraph

import (
	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/graph"
)

// createStreetDown anchors a new preview street, or cancels one on right click
func (e *Editor) createStreetDown(pos r2.Point, btn MouseButton) {
	st := e.mode.createStreet

	if btn == ButtonRight {
		e.cancelPreview()
		return
	}
	if btn != ButtonLeft || st.preview != nil {
		return
	}
	e.clearHover()

	p := &streetPreview{}
	if id, ok := e.graph.NearestIntersection(pos, e.camera.Scale(e.cfg.IntersectionTolerance)); ok {
		p.start = id
	} else {
		p.start = e.graph.AddIntersection(pos)
		p.startNew = true
	}

	start, _ := e.graph.Intersection(p.start)
	p.end = e.graph.AddIntersection(start.Position)
	e.graph.SetIntersectionState(p.end, graph.Selected)

	sid, err := e.graph.AddStreet(p.start, p.end, e.cfg.StreetWidth)
	if err != nil {
		// can't happen; p.end is brand new
		e.log.Warn("failed to add preview street", "err", err)
		e.graph.RemoveIntersection(p.end, true)
		if p.startNew {
			e.graph.RemoveIntersection(p.start, true)
		}
		return
	}
	p.street = sid
	e.graph.SetStreetState(sid, graph.Selected)

	st.preview = p
}

// createStreetMove drags the preview end, snapping to intersections
func (e *Editor) createStreetMove(pos r2.Point) {
	p := e.mode.createStreet.preview
	if p == nil {
		e.hoverIntersection(pos)
		return
	}

	target := pos
	p.snapped, p.isSnapped = e.graph.NearestIntersection(
		pos,
		e.camera.Scale(e.cfg.IntersectionTolerance),
		append(p.ids(), p.start)...,
	)
	if p.isSnapped {
		i, _ := e.graph.Intersection(p.snapped)
		target = i.Position
	}

	e.graph.MoveIntersection(p.end, target)
}

// createStreetUp replaces the preview with a real (undoable) street
func (e *Editor) createStreetUp(pos r2.Point, btn MouseButton) {
	p := e.mode.createStreet.preview
	if p == nil || btn != ButtonLeft {
		return
	}

	// make sure the end reflects the release position
	e.createStreetMove(pos)

	startPos, _ := e.graph.Intersection(p.start)
	endPos, _ := e.graph.Intersection(p.end)
	snapped, isSnapped := p.snapped, p.isSnapped
	startNew := p.startNew
	startID := p.start

	e.cancelPreview()

	if startPos.Position.Sub(endPos.Position).Norm() < e.cfg.MinStreetLength {
		e.log.Debug("street too short, discarded")
		return
	}

	start := ExistingEndpoint(startID, startPos.Position)
	if startNew {
		start = NewEndpoint(startPos.Position)
	}

	end := NewEndpoint(endPos.Position)
	if isSnapped {
		if !startNew {
			if _, exists := e.graph.StreetBetween(startID, snapped); exists {
				e.log.Debug("street already exists, discarded")
				return
			}
		}
		end = ExistingEndpoint(snapped, endPos.Position)
	}

	e.perform(NewCreateStreet(start, end, e.cfg.StreetWidth))
}

// cancelPreview removes any preview street & intersections from the graph
func (e *Editor) cancelPreview() {
	st := e.mode.createStreet
	if st == nil || st.preview == nil {
		return
	}
	p := st.preview
	st.preview = nil

	e.graph.RemoveStreet(p.street)
	e.graph.RemoveIntersection(p.end, true)
	if p.startNew {
		e.graph.RemoveIntersection(p.start, true)
	}
}

// previewIDs returns the ids of preview elements currently in the graph
func (e *Editor) previewIDs() []uuid.UUID {
	st := e.mode.createStreet
	if st == nil || st.preview == nil {
		return nil
	}
	return st.preview.ids()
}

// deleteStreetUp removes the hovered street
func (e *Editor) deleteStreetUp(pos r2.Point, btn MouseButton) {
	if btn != ButtonLeft {
		return
	}
	e.hoverStreet(pos)
	if !e.mode.hovering {
		return
	}

	id := e.mode.hover
	e.clearHover()

	act, ok := NewDeleteStreet(e.graph, id)
	if !ok {
		return
	}
	e.perform(act)
}
