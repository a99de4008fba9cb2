package streetgraph

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/graph"
	"github.com/voidshard/streetgraph/internal/history"
	"github.com/voidshard/streetgraph/internal/lots"
)

// Action is a reversible edit of the street graph.
// Actions record ids so that undo & redo restore identical elements.
// Undo or redo of an action whose elements have gone is a no-op.
type Action = history.Action[*graph.Graph]

// applier is an Action that reports whether it could be applied.
// A failed Apply leaves the graph as it was & the action is not recorded.
type applier interface {
	Apply(g *graph.Graph) error
}

// Endpoint is one end of a street about to be created; either an existing
// intersection or a new one at Position.
type Endpoint struct {
	ID       uuid.UUID
	Position r2.Point
	New      bool
}

// ExistingEndpoint refers to an intersection already in the graph
func ExistingEndpoint(id uuid.UUID, pos r2.Point) Endpoint {
	return Endpoint{ID: id, Position: pos}
}

// NewEndpoint is an intersection created (with a fresh id) along with the street
func NewEndpoint(pos r2.Point) Endpoint {
	return Endpoint{ID: uuid.New(), Position: pos, New: true}
}

// CreateIntersection adds a lone intersection.
type CreateIntersection struct {
	ID       uuid.UUID
	Position r2.Point
}

// NewCreateIntersection returns an action adding an intersection at pos
func NewCreateIntersection(pos r2.Point) *CreateIntersection {
	return &CreateIntersection{ID: uuid.New(), Position: pos}
}

func (a *CreateIntersection) Apply(g *graph.Graph) error {
	return g.AddIntersectionWithID(a.ID, a.Position)
}

func (a *CreateIntersection) Redo(g *graph.Graph) {
	a.Apply(g)
}

func (a *CreateIntersection) Undo(g *graph.Graph) {
	g.RemoveIntersection(a.ID, false)
}

func (a *CreateIntersection) String() string {
	return "create intersection"
}

// CreateStreet adds a street, creating any New endpoints with it.
type CreateStreet struct {
	ID    uuid.UUID
	Start Endpoint
	End   Endpoint
	Width float64

	// intersections made for New endpoints
	created []*CreateIntersection
}

// NewCreateStreet returns an action adding a street between start & end
func NewCreateStreet(start, end Endpoint, width float64) *CreateStreet {
	a := &CreateStreet{ID: uuid.New(), Start: start, End: end, Width: width}
	for _, ep := range []Endpoint{start, end} {
		if ep.New {
			a.created = append(a.created, &CreateIntersection{ID: ep.ID, Position: ep.Position})
		}
	}
	return a
}

func (a *CreateStreet) Apply(g *graph.Graph) error {
	for i, c := range a.created {
		err := c.Apply(g)
		if err != nil {
			a.undoCreated(g, i)
			return err
		}
	}

	err := g.AddStreetWithID(a.ID, a.Start.ID, a.End.ID, a.Width)
	if err != nil {
		// leave nothing half made
		a.undoCreated(g, len(a.created))
	}
	return err
}

func (a *CreateStreet) Redo(g *graph.Graph) {
	a.Apply(g)
}

func (a *CreateStreet) Undo(g *graph.Graph) {
	g.RemoveStreet(a.ID)
	a.undoCreated(g, len(a.created))
}

// undoCreated removes the first n intersections this action created
func (a *CreateStreet) undoCreated(g *graph.Graph, n int) {
	for i := n - 1; i >= 0; i-- {
		a.created[i].Undo(g)
	}
}

func (a *CreateStreet) String() string {
	return "create street"
}

// DeleteStreet removes a street, along with any endpoint left without
// streets. Undo restores all of them with their original ids.
type DeleteStreet struct {
	street  graph.Street
	orphans []graph.Intersection
}

// NewDeleteStreet returns an action removing the given street
func NewDeleteStreet(g *graph.Graph, id uuid.UUID) (*DeleteStreet, bool) {
	s, ok := g.Street(id)
	if !ok {
		return nil, false
	}
	return &DeleteStreet{street: s}, true
}

func (a *DeleteStreet) Redo(g *graph.Graph) {
	_, err := g.RemoveStreet(a.street.ID)
	if err != nil {
		return
	}
	a.orphans = a.orphans[:0]

	for _, id := range []uuid.UUID{a.street.Start, a.street.End} {
		if len(g.StreetsAt(id)) > 0 {
			continue
		}
		i, ok := g.Intersection(id)
		if !ok {
			continue
		}
		_, err := g.RemoveIntersection(id, false)
		if err == nil {
			a.orphans = append(a.orphans, i)
		}
	}
}

func (a *DeleteStreet) Undo(g *graph.Graph) {
	for _, i := range a.orphans {
		g.RestoreIntersection(i)
	}
	g.RestoreStreet(a.street)
}

func (a *DeleteStreet) String() string {
	return "delete street"
}

// MoveIntersections sets a group of intersections from one set of
// positions to another.
type MoveIntersections struct {
	From map[uuid.UUID]r2.Point
	To   map[uuid.UUID]r2.Point
}

func (a *MoveIntersections) Redo(g *graph.Graph) {
	for id, p := range a.To {
		g.MoveIntersection(id, p)
	}
}

func (a *MoveIntersections) Undo(g *graph.Graph) {
	for id, p := range a.From {
		g.MoveIntersection(id, p)
	}
}

func (a *MoveIntersections) String() string {
	return fmt.Sprintf("move %d intersection(s)", len(a.To))
}

// CreateDistrict adds a district with the given polygon, split into house
// lots.
type CreateDistrict struct {
	ID      uuid.UUID
	Polygon []r2.Point
	Houses  lots.Options
}

// NewCreateDistrict returns an action adding a district
func NewCreateDistrict(polygon []r2.Point, houses lots.Options) *CreateDistrict {
	return &CreateDistrict{
		ID:      uuid.New(),
		Polygon: append([]r2.Point(nil), polygon...),
		Houses:  houses,
	}
}

func (a *CreateDistrict) Apply(g *graph.Graph) error {
	err := g.AddDistrictWithID(a.ID, a.Polygon)
	if err != nil {
		return err
	}
	d, _ := g.District(a.ID)
	return g.SetDistrictLots(a.ID, lots.Subdivide(d.Polygon, a.ID, a.Houses))
}

func (a *CreateDistrict) Redo(g *graph.Graph) {
	a.Apply(g)
}

func (a *CreateDistrict) Undo(g *graph.Graph) {
	g.RemoveDistrict(a.ID)
}

func (a *CreateDistrict) String() string {
	return "create district"
}

// DeleteDistrict removes a district.
type DeleteDistrict struct {
	district graph.District
}

// NewDeleteDistrict returns an action removing the given district
func NewDeleteDistrict(g *graph.Graph, id uuid.UUID) (*DeleteDistrict, bool) {
	d, ok := g.District(id)
	if !ok {
		return nil, false
	}
	return &DeleteDistrict{district: d}, true
}

func (a *DeleteDistrict) Redo(g *graph.Graph) {
	g.RemoveDistrict(a.district.ID)
}

func (a *DeleteDistrict) Undo(g *graph.Graph) {
	g.RestoreDistrict(a.district)
}

func (a *DeleteDistrict) String() string {
	return "delete district"
}

// Batch applies several actions as one; undo runs them in reverse.
type Batch struct {
	Label   string
	Actions []Action
}

// Apply runs every action in order. If one fails those already applied
// are undone.
func (a *Batch) Apply(g *graph.Graph) error {
	for i, act := range a.Actions {
		c, ok := act.(applier)
		if !ok {
			act.Redo(g)
			continue
		}
		err := c.Apply(g)
		if err != nil {
			for j := i - 1; j >= 0; j-- {
				a.Actions[j].Undo(g)
			}
			return err
		}
	}
	return nil
}

func (a *Batch) Redo(g *graph.Graph) {
	for _, act := range a.Actions {
		act.Redo(g)
	}
}

func (a *Batch) Undo(g *graph.Graph) {
	for i := len(a.Actions) - 1; i >= 0; i-- {
		a.Actions[i].Undo(g)
	}
}

func (a *Batch) String() string {
	return a.Label
}
