package streetgraph

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/voronoi"
)

// generatorSnap is the grid cell voronoi vertices are rounded to before
// being merged into one intersection
const generatorSnap = 1e-3

// Generate lays out a random street network over the canvas: every edge of
// a voronoi diagram becomes a street & cells sharing a vertex share an
// intersection. With Generator.Districts set every cell also becomes a
// district. The whole layout is one undoable action.
// Returns the number of streets added.
func (e *Editor) Generate() (int, error) {
	gcfg := e.cfg.Generator
	bounds := r2.RectFromPoints(r2.Point{}, r2.Point{X: float64(e.cfg.Width), Y: float64(e.cfg.Height)})

	vb := voronoi.NewBuilder(bounds)
	if gcfg.Seed != 0 {
		vb.SetSeed(gcfg.Seed)
	}
	vb.SetCandidateFilters(voronoi.Margin(bounds, gcfg.Margin))
	vb.SetSiteFilters(voronoi.MinDistance(gcfg.MinSiteDistance))

	// make more attempts than needed incase we randomly pick invalid points
	for i := 0; i < gcfg.Sites*5 && vb.SiteCount() < gcfg.Sites; i++ {
		vb.AddRandomSite()
	}

	vd, err := vb.Voronoi()
	if err != nil {
		return 0, err
	}

	act := streetsForSegments(vd.Segments(), e.cfg.StreetWidth)
	streets := len(act.Actions)
	if streets == 0 {
		return 0, nil
	}

	districts := 0
	if gcfg.Districts {
		for i := 0; i < vd.Len(); i++ {
			_, ring := vd.Cell(i)
			poly := snapRing(ring)
			if len(poly) < 3 {
				continue
			}
			act.Actions = append(act.Actions, NewCreateDistrict(poly, e.houses()))
			districts++
		}
	}

	kind := e.mode.kind
	e.exit()
	err = e.perform(act)
	e.enter(kind)
	if err != nil {
		return 0, err
	}

	e.log.Info("streets generated", "sites", vb.SiteCount(), "streets", streets, "districts", districts)
	return streets, nil
}

// streetsForSegments turns line segments into CreateStreet actions,
// joining segments that share an end point.
func streetsForSegments(segments [][2]r2.Point, width float64) *Batch {
	act := &Batch{Label: "generate streets"}

	known := map[r2.Point]uuid.UUID{}
	pairs := map[[2]uuid.UUID]bool{}

	endpoint := func(p r2.Point) Endpoint {
		key := snapPoint(p)
		if id, ok := known[key]; ok {
			return ExistingEndpoint(id, key)
		}
		ep := NewEndpoint(key)
		known[key] = ep.ID
		return ep
	}

	for _, seg := range segments {
		if snapPoint(seg[0]) == snapPoint(seg[1]) {
			continue // degenerate
		}
		a := endpoint(seg[0])
		b := endpoint(seg[1])

		pair := [2]uuid.UUID{a.ID, b.ID}
		if pairs[pair] || pairs[[2]uuid.UUID{b.ID, a.ID}] {
			continue
		}
		pairs[pair] = true

		act.Actions = append(act.Actions, NewCreateStreet(a, b, width))
	}

	return act
}

// snapRing snaps every vertex of a cell ring, dropping repeats
func snapRing(ring []r2.Point) []r2.Point {
	out := make([]r2.Point, 0, len(ring))
	for _, p := range ring {
		p = snapPoint(p)
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

func snapPoint(p r2.Point) r2.Point {
	return r2.Point{
		X: math.Round(p.X/generatorSnap) * generatorSnap,
		Y: math.Round(p.Y/generatorSnap) * generatorSnap,
	}
}
