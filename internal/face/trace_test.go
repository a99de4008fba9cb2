package face

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/streetgraph/internal/graph"
	"github.com/voidshard/streetgraph/internal/line"
)

func pt(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

func street(t *testing.T, g *graph.Graph, a, b uuid.UUID) uuid.UUID {
	id, err := g.AddStreet(a, b, 1)
	require.NoError(t, err)
	return id
}

// grid builds a 3x3 lattice of intersections 10 apart.
// Horizontal streets run west -> east, vertical streets south -> north.
func grid(t *testing.T) (*graph.Graph, [3][3]uuid.UUID, map[string]uuid.UUID) {
	g := graph.New()
	var vs [3][3]uuid.UUID
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			vs[x][y] = g.AddIntersection(pt(float64(x*10), float64(y*10)))
		}
	}

	ss := map[string]uuid.UUID{}
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			ss[string(rune('a'+x))+string(rune('0'+y))+"h"] = street(t, g, vs[x][y], vs[x+1][y])
		}
	}
	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			ss[string(rune('a'+x))+string(rune('0'+y))+"v"] = street(t, g, vs[x][y], vs[x][y+1])
		}
	}
	return g, vs, ss
}

func TestTraceTriangle(t *testing.T) {
	g := graph.New()
	a := g.AddIntersection(pt(0, 0))
	b := g.AddIntersection(pt(10, 0))
	c := g.AddIntersection(pt(0, 10))

	ab := street(t, g, a, b)
	street(t, g, b, c)
	street(t, g, c, a)

	t.Run("interior", func(t *testing.T) {
		poly, ok := Trace(g, ab, graph.Left)
		require.True(t, ok)
		assert.Equal(t, []r2.Point{pt(0, 0), pt(10, 0), pt(0, 10)}, poly)
	})

	t.Run("exterior", func(t *testing.T) {
		poly, ok := Trace(g, ab, graph.Right)
		assert.False(t, ok)
		assert.Nil(t, poly)
	})

	t.Run("unknown street", func(t *testing.T) {
		_, ok := Trace(g, uuid.New(), graph.Left)
		assert.False(t, ok)
	})
}

func TestTraceReversedStreet(t *testing.T) {
	g := graph.New()
	a := g.AddIntersection(pt(0, 0))
	b := g.AddIntersection(pt(10, 0))
	c := g.AddIntersection(pt(0, 10))

	ab := street(t, g, a, b)
	cb := street(t, g, c, b) // runs against the other two
	street(t, g, c, a)

	poly, ok := Trace(g, ab, graph.Left)
	require.True(t, ok)
	assert.Equal(t, []r2.Point{pt(0, 0), pt(10, 0), pt(0, 10)}, poly)

	// the interior is on the right of c -> b
	poly, ok = Trace(g, cb, graph.Right)
	require.True(t, ok)
	assert.Len(t, poly, 3)
	assert.Less(t, line.SignedArea(poly), 0.0)

	_, ok = Trace(g, cb, graph.Left)
	assert.False(t, ok)
}

func TestTraceIsolatedStreet(t *testing.T) {
	g := graph.New()
	a := g.AddIntersection(pt(0, 0))
	b := g.AddIntersection(pt(10, 0))
	s := street(t, g, a, b)

	for _, side := range []graph.Side{graph.Left, graph.Right} {
		_, ok := Trace(g, s, side)
		assert.False(t, ok, side.String())
	}
}

func TestTraceGrid(t *testing.T) {
	g, _, ss := grid(t)

	cases := []struct {
		name   string
		street string
		side   graph.Side
		want   []r2.Point
	}{
		{"south west from south", "a0h", graph.Left, []r2.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}},
		{"south east from west", "b0v", graph.Right, []r2.Point{pt(10, 0), pt(10, 10), pt(20, 10), pt(20, 0)}},
		{"north east from north", "b2h", graph.Right, []r2.Point{pt(10, 20), pt(20, 20), pt(20, 10), pt(10, 10)}},
		{"north west from centre", "a1h", graph.Left, []r2.Point{pt(0, 10), pt(10, 10), pt(10, 20), pt(0, 20)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			poly, ok := Trace(g, ss[tc.street], tc.side)
			require.True(t, ok)
			assert.True(t, line.SameRing(tc.want, poly, 1e-9), "got %v", poly)
		})
	}

	t.Run("outer boundary", func(t *testing.T) {
		_, ok := Trace(g, ss["a0h"], graph.Right)
		assert.False(t, ok)
		_, ok = Trace(g, ss["a2h"], graph.Left)
		assert.False(t, ok)
	})

	t.Run("all faces", func(t *testing.T) {
		faces := TraceAll(g)
		require.Len(t, faces, 4)
		for _, f := range faces {
			assert.Len(t, f.Polygon, 4)
			assert.InDelta(t, 100.0, abs(line.SignedArea(f.Polygon)), 1e-9)
		}
	})
}

func TestTraceColinearJunction(t *testing.T) {
	// triangle with its base split at m; m has two colinear streets
	g := graph.New()
	a := g.AddIntersection(pt(0, 0))
	m := g.AddIntersection(pt(5, 0))
	b := g.AddIntersection(pt(10, 0))
	c := g.AddIntersection(pt(0, 10))

	am := street(t, g, a, m)
	mb := street(t, g, m, b)
	street(t, g, b, c)
	street(t, g, c, a)

	poly, ok := Trace(g, am, graph.Left)
	require.True(t, ok)
	assert.Equal(t, []r2.Point{pt(0, 0), pt(5, 0), pt(10, 0), pt(0, 10)}, poly)

	_, ok = Trace(g, mb, graph.Right)
	assert.False(t, ok)

	assert.Len(t, TraceAll(g), 1)
}

func TestTraceSpur(t *testing.T) {
	g := graph.New()
	sw := g.AddIntersection(pt(0, 0))
	se := g.AddIntersection(pt(10, 0))
	ne := g.AddIntersection(pt(10, 10))
	nw := g.AddIntersection(pt(0, 10))
	tip := g.AddIntersection(pt(3, 3))

	south := street(t, g, sw, se)
	street(t, g, se, ne)
	street(t, g, ne, nw)
	street(t, g, nw, sw)

	poly, ok := Trace(g, south, graph.Left)
	require.True(t, ok)
	assert.Len(t, poly, 4)

	spur := street(t, g, sw, tip)

	// the walk now runs into the dead end at the tip
	_, ok = Trace(g, south, graph.Left)
	assert.False(t, ok)

	for _, side := range []graph.Side{graph.Left, graph.Right} {
		_, ok := Trace(g, spur, side)
		assert.False(t, ok)
	}
}

func TestTraceAllDisjoint(t *testing.T) {
	g := graph.New()
	for _, off := range []float64{0, 100} {
		a := g.AddIntersection(pt(off, 0))
		b := g.AddIntersection(pt(off+10, 0))
		c := g.AddIntersection(pt(off, 10))
		street(t, g, a, b)
		street(t, g, b, c)
		street(t, g, c, a)
	}

	faces := TraceAll(g)
	require.Len(t, faces, 2)
	assert.NotEqual(t, faces[0].Polygon, faces[1].Polygon)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
