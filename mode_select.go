package streetgraph

import (
	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/graph"
	"github.com/voidshard/streetgraph/internal/line"
)

// placeGizmo puts the drag handle at the mean position of the selection
func (e *Editor) placeGizmo() {
	st := e.mode.moveControl
	pts := []r2.Point{}
	for _, id := range e.graph.IntersectionsWithState(graph.Selected) {
		i, _ := e.graph.Intersection(id)
		pts = append(pts, i.Position)
	}
	st.gizmo, st.hasGizmo = line.Centroid(pts)
}

// Gizmo returns the MoveControl drag handle position, if there is one
func (e *Editor) Gizmo() (r2.Point, bool) {
	st := e.mode.moveControl
	if st == nil {
		return r2.Point{}, false
	}
	return st.gizmo, st.hasGizmo
}

// moveControlDown starts a drag on the gizmo, or edits the selection
func (e *Editor) moveControlDown(pos r2.Point, btn MouseButton) {
	st := e.mode.moveControl
	if btn != ButtonLeft || st.dragging {
		return
	}

	if st.hasGizmo && pos.Sub(st.gizmo).Norm() <= e.camera.Scale(e.cfg.GizmoRadius) {
		st.dragging = true
		st.last = pos
		st.origin = map[uuid.UUID]r2.Point{}
		for _, id := range e.graph.IntersectionsWithState(graph.Selected) {
			i, _ := e.graph.Intersection(id)
			st.origin[id] = i.Position
		}
		return
	}

	id, ok := e.graph.NearestIntersection(pos, e.camera.Scale(e.cfg.IntersectionTolerance))
	if !ok {
		// clicked on nothing
		for _, sel := range e.graph.IntersectionsWithState(graph.Selected) {
			e.graph.SetIntersectionState(sel, graph.Normal)
		}
	} else {
		if e.mode.hovering && e.mode.hover == id {
			e.mode.hovering = false
		}
		e.graph.SetIntersectionState(id, graph.Selected)
	}
	e.placeGizmo()
}

// moveControlMove drags the selection, or hovers intersections
func (e *Editor) moveControlMove(pos r2.Point) {
	st := e.mode.moveControl
	if !st.dragging {
		e.hoverIntersection(pos)
		return
	}

	delta := pos.Sub(st.last)
	st.last = pos
	st.gizmo = st.gizmo.Add(delta)

	ids := make([]uuid.UUID, 0, len(st.origin))
	for id := range st.origin {
		ids = append(ids, id)
	}
	e.graph.TranslateIntersections(ids, delta)
}

// moveControlUp finishes a drag as one undoable move
func (e *Editor) moveControlUp(pos r2.Point, btn MouseButton) {
	st := e.mode.moveControl
	if btn != ButtonLeft || !st.dragging {
		return
	}
	e.moveControlMove(pos)

	act := &MoveIntersections{From: st.origin, To: map[uuid.UUID]r2.Point{}}
	moved := false
	for id, from := range st.origin {
		i, ok := e.graph.Intersection(id)
		if !ok {
			continue
		}
		act.To[id] = i.Position
		moved = moved || i.Position != from
	}

	st.dragging = false
	st.origin = nil

	if !moved {
		return
	}

	// rewind so the action applies the whole move at once
	act.Undo(e.graph)
	e.perform(act)
}

// cancelDrag puts a dragged selection back where it started
func (e *Editor) cancelDrag() {
	st := e.mode.moveControl
	if st == nil || !st.dragging {
		return
	}
	for id, p := range st.origin {
		e.graph.MoveIntersection(id, p)
	}
	st.dragging = false
	st.origin = nil
}

// boxSelectDown anchors the selection rectangle
func (e *Editor) boxSelectDown(pos r2.Point, btn MouseButton) {
	if btn != ButtonLeft {
		return
	}
	st := e.mode.boxSelect
	st.active = true
	st.anchor = pos
	st.corner = pos
}

// boxSelectMove updates the free corner
func (e *Editor) boxSelectMove(pos r2.Point) {
	st := e.mode.boxSelect
	if st.active {
		st.corner = pos
	}
}

// boxSelectUp selects every intersection inside the rectangle.
// The selection is added to; nothing is deselected.
func (e *Editor) boxSelectUp(pos r2.Point, btn MouseButton) {
	st := e.mode.boxSelect
	if btn != ButtonLeft || !st.active {
		return
	}
	st.corner = pos

	ids := e.graph.IntersectionsInRectangle(st.anchor, st.corner)
	for _, id := range ids {
		e.graph.SetIntersectionState(id, graph.Selected)
	}
	st.active = false

	e.log.Debug("box selected", "count", len(ids))
}

// SelectionBox returns the current BoxSelect rectangle, if one is being drawn
func (e *Editor) SelectionBox() (r2.Rect, bool) {
	st := e.mode.boxSelect
	if st == nil || !st.active {
		return r2.Rect{}, false
	}
	return r2.RectFromPoints(st.anchor, st.corner), true
}
