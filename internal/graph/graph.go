package graph

import (
	"sort"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/voidshard/streetgraph/internal/line"
)

// Graph owns every Intersection, Street & District of a map.
// Cross references are ids; all reads & writes go through the Graph so the
// derived street geometry is never out of date.
type Graph struct {
	intersections map[uuid.UUID]*Intersection
	streets       map[uuid.UUID]*Street
	districts     map[uuid.UUID]*District

	// intersection id -> incident street ids (insertion order)
	incident map[uuid.UUID][]uuid.UUID

	seq   uint64
	index *spatialIndex
}

// New returns an empty Graph
func New() *Graph {
	return &Graph{
		intersections: map[uuid.UUID]*Intersection{},
		streets:       map[uuid.UUID]*Street{},
		districts:     map[uuid.UUID]*District{},
		incident:      map[uuid.UUID][]uuid.UUID{},
		index:         newSpatialIndex(),
	}
}

// Clear removes everything from the graph.
func (g *Graph) Clear() {
	g.intersections = map[uuid.UUID]*Intersection{}
	g.streets = map[uuid.UUID]*Street{}
	g.districts = map[uuid.UUID]*District{}
	g.incident = map[uuid.UUID][]uuid.UUID{}
	g.index.invalidate()
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := New()
	c.seq = g.seq
	for id, i := range g.intersections {
		cp := *i
		c.intersections[id] = &cp
	}
	for id, s := range g.streets {
		cp := s.copy()
		c.streets[id] = &cp
	}
	for id, d := range g.districts {
		cp := d.copy()
		c.districts[id] = &cp
	}
	for id, ls := range g.incident {
		c.incident[id] = append([]uuid.UUID(nil), ls...)
	}
	return c
}

// nextSeq hands out insertion order numbers
func (g *Graph) nextSeq() uint64 {
	g.seq++
	return g.seq
}

// AddIntersection at pos, returning the new id.
func (g *Graph) AddIntersection(pos r2.Point) uuid.UUID {
	id := uuid.New()
	g.intersections[id] = &Intersection{ID: id, Position: pos, seq: g.nextSeq()}
	g.index.invalidate()
	return id
}

// AddIntersectionWithID adds an intersection with a caller chosen id.
func (g *Graph) AddIntersectionWithID(id uuid.UUID, pos r2.Point) error {
	if _, ok := g.intersections[id]; ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "intersection %s already exists", id)
	}
	g.intersections[id] = &Intersection{ID: id, Position: pos, seq: g.nextSeq()}
	g.index.invalidate()
	return nil
}

// RestoreIntersection puts back a removed intersection snapshot with its
// id & insertion order.
func (g *Graph) RestoreIntersection(i Intersection) error {
	if _, ok := g.intersections[i.ID]; ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "intersection %s already exists", i.ID)
	}
	cp := i
	cp.State = Normal
	if cp.seq == 0 {
		cp.seq = g.nextSeq()
	}
	g.intersections[cp.ID] = &cp
	g.index.invalidate()
	return nil
}

// RemoveIntersection deletes the intersection.
// If streets still reference it the call fails, unless cascade is set in
// which case the incident streets are removed too & returned.
func (g *Graph) RemoveIntersection(id uuid.UUID, cascade bool) ([]Street, error) {
	if _, ok := g.intersections[id]; !ok {
		return nil, errors.Wrapf(ErrNotFound, "intersection %s", id)
	}

	refs := g.incident[id]
	if len(refs) > 0 && !cascade {
		return nil, errors.Wrapf(
			ErrGraphConstraintViolation,
			"intersection %s is referenced by %d street(s)", id, len(refs),
		)
	}

	removed := []Street{}
	for _, sid := range append([]uuid.UUID(nil), refs...) {
		s, err := g.RemoveStreet(sid)
		if err != nil {
			return removed, err
		}
		removed = append(removed, s)
	}

	delete(g.intersections, id)
	delete(g.incident, id)
	g.index.invalidate()
	return removed, nil
}

// MoveIntersection sets a new position & recomputes every incident street.
func (g *Graph) MoveIntersection(id uuid.UUID, pos r2.Point) error {
	i, ok := g.intersections[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "intersection %s", id)
	}
	i.Position = pos
	for _, sid := range g.incident[id] {
		g.updateStreet(g.streets[sid])
	}
	g.index.invalidate()
	return nil
}

// TranslateIntersections moves all given intersections by delta.
// Unknown ids are skipped.
func (g *Graph) TranslateIntersections(ids []uuid.UUID, delta r2.Point) {
	for _, id := range ids {
		i, ok := g.intersections[id]
		if !ok {
			continue
		}
		g.MoveIntersection(id, i.Position.Add(delta))
	}
}

// AddStreet connects start & end, returning the new street id.
func (g *Graph) AddStreet(start, end uuid.UUID, width float64) (uuid.UUID, error) {
	id := uuid.New()
	return id, g.AddStreetWithID(id, start, end, width)
}

// AddStreetWithID connects start & end with a caller chosen id.
func (g *Graph) AddStreetWithID(id, start, end uuid.UUID, width float64) error {
	err := g.CanAddStreet(id, start, end)
	if err != nil {
		return err
	}
	g.insertStreet(&Street{ID: id, Start: start, End: end, Width: width, seq: g.nextSeq()})
	return nil
}

// RestoreStreet puts back a removed street snapshot with its id & insertion
// order. Both endpoints must exist.
func (g *Graph) RestoreStreet(s Street) error {
	err := g.CanAddStreet(s.ID, s.Start, s.End)
	if err != nil {
		return err
	}
	seq := s.seq
	if seq == 0 {
		seq = g.nextSeq()
	}
	g.insertStreet(&Street{ID: s.ID, Start: s.Start, End: s.End, Width: s.Width, seq: seq})
	return nil
}

// CanAddStreet returns why a street with this id could not join start &
// end, or nil if it could.
func (g *Graph) CanAddStreet(id, start, end uuid.UUID) error {
	if _, ok := g.streets[id]; ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "street %s already exists", id)
	}
	if _, ok := g.intersections[start]; !ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "street start %s does not exist", start)
	}
	if _, ok := g.intersections[end]; !ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "street end %s does not exist", end)
	}
	if start == end {
		return errors.Wrapf(ErrGraphConstraintViolation, "street cannot start & end at %s", start)
	}
	if existing, ok := g.StreetBetween(start, end); ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "street %s already joins %s & %s", existing, start, end)
	}
	return nil
}

// insertStreet stores s & links it into the incident lists of its
// endpoints, keeping each list in insertion order.
func (g *Graph) insertStreet(s *Street) {
	g.updateStreet(s)
	g.streets[s.ID] = s
	g.incident[s.Start] = g.insertBySeq(g.incident[s.Start], s)
	g.incident[s.End] = g.insertBySeq(g.incident[s.End], s)
}

func (g *Graph) insertBySeq(ls []uuid.UUID, s *Street) []uuid.UUID {
	at := len(ls)
	for k, sid := range ls {
		if g.streets[sid].seq > s.seq {
			at = k
			break
		}
	}
	ls = append(ls, uuid.Nil)
	copy(ls[at+1:], ls[at:])
	ls[at] = s.ID
	return ls
}

// RemoveStreet deletes the street. Its intersections are left in place.
func (g *Graph) RemoveStreet(id uuid.UUID) (Street, error) {
	s, ok := g.streets[id]
	if !ok {
		return Street{}, errors.Wrapf(ErrNotFound, "street %s", id)
	}
	g.incident[s.Start] = without(g.incident[s.Start], id)
	g.incident[s.End] = without(g.incident[s.End], id)
	delete(g.streets, id)
	return s.copy(), nil
}

// StreetBetween returns the street joining a & b (in either direction).
func (g *Graph) StreetBetween(a, b uuid.UUID) (uuid.UUID, bool) {
	if a == b {
		return uuid.Nil, false
	}
	for _, sid := range g.incident[a] {
		if g.streets[sid].Touches(b) {
			return sid, true
		}
	}
	return uuid.Nil, false
}

// updateStreet recomputes the derived line & polygon of s.
func (g *Graph) updateStreet(s *Street) {
	a := g.intersections[s.Start].Position
	b := g.intersections[s.End].Position
	s.Line = line.NewSegment(a, b)
	s.Polygon = s.Line.Offset(s.Width)
}

// AddDistrict stores the polygon as a new district.
func (g *Graph) AddDistrict(polygon []r2.Point) uuid.UUID {
	id := uuid.New()
	g.districts[id] = &District{ID: id, Polygon: normaliseRing(polygon), seq: g.nextSeq()}
	return id
}

// AddDistrictWithID stores the polygon as a district with a caller chosen id.
func (g *Graph) AddDistrictWithID(id uuid.UUID, polygon []r2.Point) error {
	if _, ok := g.districts[id]; ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "district %s already exists", id)
	}
	g.districts[id] = &District{ID: id, Polygon: normaliseRing(polygon), seq: g.nextSeq()}
	return nil
}

// RestoreDistrict puts back a removed district snapshot with its id,
// lots & insertion order.
func (g *Graph) RestoreDistrict(d District) error {
	if _, ok := g.districts[d.ID]; ok {
		return errors.Wrapf(ErrGraphConstraintViolation, "district %s already exists", d.ID)
	}
	cp := d.copy()
	cp.Polygon = normaliseRing(cp.Polygon)
	cp.State = Normal
	if cp.seq == 0 {
		cp.seq = g.nextSeq()
	}
	g.districts[cp.ID] = &cp
	return nil
}

// SetDistrictLots replaces the house lots of a district.
func (g *Graph) SetDistrictLots(id uuid.UUID, lots [][]r2.Point) error {
	d, ok := g.districts[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "district %s", id)
	}
	d.Lots = copyRings(lots)
	return nil
}

// RemoveDistrict deletes the district.
func (g *Graph) RemoveDistrict(id uuid.UUID) (District, error) {
	d, ok := g.districts[id]
	if !ok {
		return District{}, errors.Wrapf(ErrNotFound, "district %s", id)
	}
	delete(g.districts, id)
	return d.copy(), nil
}

// Intersection returns a snapshot of the intersection.
func (g *Graph) Intersection(id uuid.UUID) (Intersection, bool) {
	i, ok := g.intersections[id]
	if !ok {
		return Intersection{}, false
	}
	return *i, true
}

// Street returns a snapshot of the street.
func (g *Graph) Street(id uuid.UUID) (Street, bool) {
	s, ok := g.streets[id]
	if !ok {
		return Street{}, false
	}
	return s.copy(), true
}

// District returns a snapshot of the district.
func (g *Graph) District(id uuid.UUID) (District, bool) {
	d, ok := g.districts[id]
	if !ok {
		return District{}, false
	}
	return d.copy(), true
}

// Intersections returns all intersections in insertion order.
func (g *Graph) Intersections() []Intersection {
	out := make([]Intersection, 0, len(g.intersections))
	for _, i := range g.intersections {
		out = append(out, *i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].seq < out[b].seq })
	return out
}

// Streets returns all streets in insertion order.
func (g *Graph) Streets() []Street {
	out := make([]Street, 0, len(g.streets))
	for _, s := range g.sortedStreets() {
		out = append(out, s.copy())
	}
	return out
}

// Districts returns all districts in insertion order.
func (g *Graph) Districts() []District {
	ds := make([]*District, 0, len(g.districts))
	for _, d := range g.districts {
		ds = append(ds, d)
	}
	sort.Slice(ds, func(a, b int) bool { return ds[a].seq < ds[b].seq })

	out := make([]District, len(ds))
	for i, d := range ds {
		out[i] = d.copy()
	}
	return out
}

// sortedStreets returns internal street pointers in insertion order
func (g *Graph) sortedStreets() []*Street {
	ss := make([]*Street, 0, len(g.streets))
	for _, s := range g.streets {
		ss = append(ss, s)
	}
	sort.Slice(ss, func(a, b int) bool { return ss[a].seq < ss[b].seq })
	return ss
}

// StreetsAt returns the ids of all streets touching the intersection.
func (g *Graph) StreetsAt(id uuid.UUID) []uuid.UUID {
	return append([]uuid.UUID(nil), g.incident[id]...)
}

// NumIntersections in the graph
func (g *Graph) NumIntersections() int {
	return len(g.intersections)
}

// NumStreets in the graph
func (g *Graph) NumStreets() int {
	return len(g.streets)
}

// NumDistricts in the graph
func (g *Graph) NumDistricts() int {
	return len(g.districts)
}

// without returns ls minus every occurrence of id, preserving order
func without(ls []uuid.UUID, id uuid.UUID) []uuid.UUID {
	out := ls[:0]
	for _, v := range ls {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
