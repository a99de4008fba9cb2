package encoding

import (
	"encoding/json"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/voidshard/streetgraph/internal/graph"
)

// Version of the document format written by Marshal
const Version = 1

var (
	// ErrUnsupportedVersion is returned for documents newer than Version
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// Document is the saved form of a graph.
// Field names are part of the format; do not rename them.
// Element states are transient & not saved.
type Document struct {
	Version       int            `json:"version"`
	Intersections []Intersection `json:"intersections"`
	Streets       []Street       `json:"streets"`
	Districts     []District     `json:"districts"`
}

// Point is a 2D position
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Intersection is a saved graph.Intersection
type Intersection struct {
	ID       uuid.UUID `json:"id"`
	Position Point     `json:"position"`
}

// Street is a saved graph.Street; geometry is derived again on load
type Street struct {
	ID    uuid.UUID `json:"id"`
	Start uuid.UUID `json:"start"`
	End   uuid.UUID `json:"end"`
	Width float64   `json:"width"`
}

// District is a saved graph.District
type District struct {
	ID      uuid.UUID `json:"id"`
	Polygon []Point   `json:"polygon"`
	Lots    [][]Point `json:"lots,omitempty"`
}

// FromGraph builds a Document from the graph, in insertion order.
func FromGraph(g *graph.Graph) *Document {
	doc := &Document{
		Version:       Version,
		Intersections: []Intersection{},
		Streets:       []Street{},
		Districts:     []District{},
	}

	for _, i := range g.Intersections() {
		doc.Intersections = append(doc.Intersections, Intersection{ID: i.ID, Position: fromR2(i.Position)})
	}
	for _, s := range g.Streets() {
		doc.Streets = append(doc.Streets, Street{ID: s.ID, Start: s.Start, End: s.End, Width: s.Width})
	}
	for _, d := range g.Districts() {
		dist := District{ID: d.ID, Polygon: fromRing(d.Polygon)}
		for _, lot := range d.Lots {
			dist.Lots = append(dist.Lots, fromRing(lot))
		}
		doc.Districts = append(doc.Districts, dist)
	}

	return doc
}

// Graph builds a new graph from the document.
func (d *Document) Graph() (*graph.Graph, error) {
	if d.Version > Version {
		return nil, errors.Wrapf(ErrUnsupportedVersion, "version %d (max %d)", d.Version, Version)
	}

	g := graph.New()
	for _, i := range d.Intersections {
		err := g.AddIntersectionWithID(i.ID, i.Position.r2())
		if err != nil {
			return nil, err
		}
	}
	for _, s := range d.Streets {
		err := g.AddStreetWithID(s.ID, s.Start, s.End, s.Width)
		if err != nil {
			return nil, err
		}
	}
	for _, dist := range d.Districts {
		err := g.AddDistrictWithID(dist.ID, toRing(dist.Polygon))
		if err != nil {
			return nil, err
		}
		if len(dist.Lots) == 0 {
			continue
		}
		lots := make([][]r2.Point, len(dist.Lots))
		for i, lot := range dist.Lots {
			lots[i] = toRing(lot)
		}
		err = g.SetDistrictLots(dist.ID, lots)
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Marshal returns the graph as json.
func Marshal(g *graph.Graph) ([]byte, error) {
	return json.Marshal(FromGraph(g))
}

// Unmarshal parses json written by Marshal into a new graph.
func Unmarshal(data []byte) (*graph.Graph, error) {
	doc := &Document{}
	err := json.Unmarshal(data, doc)
	if err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	return doc.Graph()
}

func fromRing(ring []r2.Point) []Point {
	out := make([]Point, len(ring))
	for i, p := range ring {
		out[i] = fromR2(p)
	}
	return out
}

func toRing(ring []Point) []r2.Point {
	out := make([]r2.Point, len(ring))
	for i, p := range ring {
		out[i] = p.r2()
	}
	return out
}

func fromR2(p r2.Point) Point {
	return Point{X: p.X, Y: p.Y}
}

func (p Point) r2() r2.Point {
	return r2.Point{X: p.X, Y: p.Y}
}
