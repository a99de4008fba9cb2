package graph

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

// triangle builds A(0,0) B(10,0) C(0,10) with streets A->B, B->C, C->A
func triangle(t *testing.T) (*Graph, [3]uuid.UUID, [3]uuid.UUID) {
	g := New()
	a := g.AddIntersection(pt(0, 0))
	b := g.AddIntersection(pt(10, 0))
	c := g.AddIntersection(pt(0, 10))

	ab, err := g.AddStreet(a, b, 2)
	require.NoError(t, err)
	bc, err := g.AddStreet(b, c, 2)
	require.NoError(t, err)
	ca, err := g.AddStreet(c, a, 2)
	require.NoError(t, err)

	return g, [3]uuid.UUID{a, b, c}, [3]uuid.UUID{ab, bc, ca}
}

func TestAddStreet(t *testing.T) {
	t.Run("derives line & polygon", func(t *testing.T) {
		g := New()
		a := g.AddIntersection(pt(0, 0))
		b := g.AddIntersection(pt(10, 0))

		id, err := g.AddStreet(a, b, 4)
		require.NoError(t, err)

		s, ok := g.Street(id)
		require.True(t, ok)
		assert.Equal(t, pt(0, 0), s.Line.Start)
		assert.Equal(t, pt(10, 0), s.Line.End)
		assert.Equal(t, []r2.Point{pt(0, 2), pt(10, 2), pt(10, -2), pt(0, -2)}, s.Polygon)
	})

	t.Run("rejects self loop", func(t *testing.T) {
		g := New()
		a := g.AddIntersection(pt(0, 0))

		_, err := g.AddStreet(a, a, 1)
		assert.True(t, errors.Is(err, ErrGraphConstraintViolation))
		assert.Equal(t, 0, g.NumStreets())
	})

	t.Run("rejects duplicate pair in either direction", func(t *testing.T) {
		g := New()
		a := g.AddIntersection(pt(0, 0))
		b := g.AddIntersection(pt(1, 0))

		_, err := g.AddStreet(a, b, 1)
		require.NoError(t, err)

		_, err = g.AddStreet(a, b, 1)
		assert.True(t, errors.Is(err, ErrGraphConstraintViolation))
		_, err = g.AddStreet(b, a, 1)
		assert.True(t, errors.Is(err, ErrGraphConstraintViolation))
		assert.Equal(t, 1, g.NumStreets())
	})

	t.Run("rejects missing endpoint", func(t *testing.T) {
		g := New()
		a := g.AddIntersection(pt(0, 0))

		_, err := g.AddStreet(a, uuid.New(), 1)
		assert.True(t, errors.Is(err, ErrGraphConstraintViolation))
	})

	t.Run("rejects reused id", func(t *testing.T) {
		g := New()
		a := g.AddIntersection(pt(0, 0))
		b := g.AddIntersection(pt(1, 0))
		c := g.AddIntersection(pt(2, 0))

		id, err := g.AddStreet(a, b, 1)
		require.NoError(t, err)

		err = g.AddStreetWithID(id, b, c, 1)
		assert.True(t, errors.Is(err, ErrGraphConstraintViolation))
	})
}

func TestRemoveIntersection(t *testing.T) {
	t.Run("referenced without cascade fails", func(t *testing.T) {
		g, vs, _ := triangle(t)

		_, err := g.RemoveIntersection(vs[0], false)
		assert.True(t, errors.Is(err, ErrGraphConstraintViolation))
		assert.Equal(t, 3, g.NumIntersections())
		assert.Equal(t, 3, g.NumStreets())
	})

	t.Run("cascade removes incident streets", func(t *testing.T) {
		g, vs, ss := triangle(t)

		removed, err := g.RemoveIntersection(vs[0], true)
		require.NoError(t, err)
		assert.Len(t, removed, 2)
		assert.Equal(t, 2, g.NumIntersections())
		assert.Equal(t, 1, g.NumStreets())

		_, ok := g.Street(ss[1])
		assert.True(t, ok)
		assert.Equal(t, []uuid.UUID{ss[1]}, g.StreetsAt(vs[1]))
	})

	t.Run("unknown id", func(t *testing.T) {
		g := New()
		_, err := g.RemoveIntersection(uuid.New(), true)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestMoveIntersection(t *testing.T) {
	g, vs, ss := triangle(t)

	require.NoError(t, g.MoveIntersection(vs[1], pt(20, 0)))

	ab, _ := g.Street(ss[0])
	bc, _ := g.Street(ss[1])
	assert.Equal(t, pt(20, 0), ab.Line.End)
	assert.Equal(t, pt(20, 0), bc.Line.Start)
	assert.Equal(t, pt(20, 1), ab.Polygon[1])

	id, ok := g.NearestIntersection(pt(19, 0), 2)
	require.True(t, ok)
	assert.Equal(t, vs[1], id)

	err := g.MoveIntersection(uuid.New(), pt(0, 0))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNearestIntersection(t *testing.T) {
	g := New()
	a := g.AddIntersection(pt(0, 0))
	b := g.AddIntersection(pt(10, 0))
	twin := g.AddIntersection(pt(10, 0))

	cases := []struct {
		name    string
		pos     r2.Point
		max     float64
		exclude []uuid.UUID
		want    uuid.UUID
		found   bool
	}{
		{"closest", pt(1, 1), 5, nil, a, true},
		{"out of range", pt(5, 5), 1, nil, uuid.Nil, false},
		{"tie goes to earliest", pt(9, 0), 5, nil, b, true},
		{"excluded skipped", pt(9, 0), 5, []uuid.UUID{b}, twin, true},
		{"all excluded", pt(0, 0), 0.5, []uuid.UUID{a}, uuid.Nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := g.NearestIntersection(tc.pos, tc.max, tc.exclude...)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, id)
		})
	}

	t.Run("empty graph", func(t *testing.T) {
		_, ok := New().NearestIntersection(pt(0, 0), 100)
		assert.False(t, ok)
	})

	t.Run("many points", func(t *testing.T) {
		g := New()
		var far uuid.UUID
		for i := 0; i < 50; i++ {
			far = g.AddIntersection(pt(float64(i), 0))
		}
		id, ok := g.NearestIntersection(pt(49.2, 0), 1)
		require.True(t, ok)
		assert.Equal(t, far, id)
	})
}

func TestNearestStreet(t *testing.T) {
	g, _, ss := triangle(t)

	id, ok := g.NearestStreet(pt(5, 1), 2)
	require.True(t, ok)
	assert.Equal(t, ss[0], id)

	_, ok = g.NearestStreet(pt(5, 1), 2, ss[0])
	assert.False(t, ok)

	id, ok = g.NearestStreet(pt(5, 1), 10, ss[0])
	require.True(t, ok)
	assert.Equal(t, ss[1], id)
}

func TestDistrictAt(t *testing.T) {
	g := New()
	square := []r2.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}
	first := g.AddDistrict(square)
	second := g.AddDistrict(square)

	id, ok := g.DistrictAt(pt(5, 5))
	require.True(t, ok)
	assert.Equal(t, second, id)

	_, err := g.RemoveDistrict(second)
	require.NoError(t, err)

	id, ok = g.DistrictAt(pt(5, 5))
	require.True(t, ok)
	assert.Equal(t, first, id)

	_, ok = g.DistrictAt(pt(50, 5))
	assert.False(t, ok)
}

func TestIntersectionsInRectangle(t *testing.T) {
	g := New()
	a := g.AddIntersection(pt(0, 0))
	b := g.AddIntersection(pt(5, 5))
	g.AddIntersection(pt(11, 5))

	assert.Equal(t, []uuid.UUID{a, b}, g.IntersectionsInRectangle(pt(10, 10), pt(0, 0)))
	assert.Equal(t, []uuid.UUID{b}, g.IntersectionsInRectangle(pt(5, 5), pt(5, 5)))
	assert.Empty(t, g.IntersectionsInRectangle(pt(20, 20), pt(30, 30)))
}

func TestSideOfPosition(t *testing.T) {
	g, _, ss := triangle(t)

	side, err := g.SideOfPosition(ss[0], pt(5, 1))
	require.NoError(t, err)
	assert.Equal(t, Left, side)

	side, err = g.SideOfPosition(ss[0], pt(5, -1))
	require.NoError(t, err)
	assert.Equal(t, Right, side)

	_, err = g.SideOfPosition(uuid.New(), pt(0, 0))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRotation(t *testing.T) {
	// plus shaped junction at the origin
	g := New()
	o := g.AddIntersection(pt(0, 0))
	e := g.AddIntersection(pt(10, 0))
	n := g.AddIntersection(pt(0, 10))
	w := g.AddIntersection(pt(-10, 0))
	s := g.AddIntersection(pt(0, -10))

	west, _ := g.AddStreet(w, o, 1) // ends at o
	east, _ := g.AddStreet(o, e, 1)
	north, _ := g.AddStreet(o, n, 1)
	south, _ := g.AddStreet(o, s, 1)

	t.Run("next hugs the left face", func(t *testing.T) {
		id, ok := g.RotationNext(west, Left)
		require.True(t, ok)
		assert.Equal(t, north, id)
	})

	t.Run("next hugs the right face", func(t *testing.T) {
		id, ok := g.RotationNext(west, Right)
		require.True(t, ok)
		assert.Equal(t, south, id)
	})

	t.Run("previous around start", func(t *testing.T) {
		// walking east backwards (e -> o), Left of east is north, which is
		// on the walker's right
		id, ok := g.RotationPrevious(east, Left)
		require.True(t, ok)
		assert.Equal(t, north, id)

		id, ok = g.RotationPrevious(east, Right)
		require.True(t, ok)
		assert.Equal(t, south, id)
	})

	t.Run("dead end", func(t *testing.T) {
		_, ok := g.RotationPrevious(west, Left)
		assert.False(t, ok)
		_, ok = g.RotationNext(east, Left)
		assert.False(t, ok)
	})

	t.Run("colinear tie goes to earliest", func(t *testing.T) {
		g := New()
		a := g.AddIntersection(pt(0, 0))
		b := g.AddIntersection(pt(10, 0))
		c := g.AddIntersection(pt(20, 0))
		d := g.AddIntersection(pt(20, 0))

		ab, _ := g.AddStreet(a, b, 1)
		bc, _ := g.AddStreet(b, c, 1)
		g.AddStreet(b, d, 1)

		id, ok := g.RotationNext(ab, Left)
		require.True(t, ok)
		assert.Equal(t, bc, id)
	})
}

func TestCloneAndClear(t *testing.T) {
	g, vs, ss := triangle(t)
	g.SetIntersectionState(vs[0], Selected)

	c := g.Clone()
	require.NoError(t, c.MoveIntersection(vs[0], pt(-5, -5)))
	_, err := c.RemoveStreet(ss[1])
	require.NoError(t, err)

	orig, _ := g.Intersection(vs[0])
	assert.Equal(t, pt(0, 0), orig.Position)
	assert.Equal(t, Selected, orig.State)
	assert.Equal(t, 3, g.NumStreets())
	assert.Equal(t, 2, c.NumStreets())

	g.Clear()
	assert.Equal(t, 0, g.NumIntersections())
	assert.Equal(t, 0, g.NumStreets())
	_, ok := g.NearestIntersection(pt(0, 0), 100)
	assert.False(t, ok)
}

func TestStates(t *testing.T) {
	g, vs, ss := triangle(t)
	d := g.AddDistrict([]r2.Point{pt(0, 0), pt(10, 0), pt(0, 10), pt(0, 0)})

	g.SetIntersectionState(vs[1], Selected)
	g.SetStreetState(ss[2], Hover)
	g.SetDistrictState(d, Hover)
	assert.False(t, g.SetStreetState(uuid.New(), Hover))

	assert.Equal(t, []uuid.UUID{vs[1]}, g.IntersectionsWithState(Selected))

	g.ResetStates()
	assert.Empty(t, g.IntersectionsWithState(Selected))
	s, _ := g.Street(ss[2])
	assert.Equal(t, Normal, s.State)

	dist, _ := g.District(d)
	assert.Len(t, dist.Polygon, 3)
}

func TestHasRing(t *testing.T) {
	g := New()
	g.AddDistrict([]r2.Point{pt(0, 0), pt(10, 0), pt(0, 10)})

	_, ok := g.HasRing([]r2.Point{pt(10, 0), pt(0, 10), pt(0, 0)}, 1e-9)
	assert.True(t, ok)

	_, ok = g.HasRing([]r2.Point{pt(0, 0), pt(0, 10), pt(10, 0)}, 1e-9)
	assert.False(t, ok)
}

func TestRestore(t *testing.T) {
	t.Run("street keeps its place around each endpoint", func(t *testing.T) {
		g := New()
		hub := g.AddIntersection(pt(0, 0))
		var spokes []uuid.UUID
		for _, p := range []r2.Point{pt(10, 0), pt(0, 10), pt(-10, 0)} {
			sid, err := g.AddStreet(hub, g.AddIntersection(p), 2)
			require.NoError(t, err)
			spokes = append(spokes, sid)
		}
		all := g.Streets()

		s, err := g.RemoveStreet(spokes[0])
		require.NoError(t, err)
		require.NoError(t, g.RestoreStreet(s))

		assert.Equal(t, spokes, g.StreetsAt(hub))
		assert.Equal(t, all, g.Streets())

		// already back
		assert.True(t, errors.Is(g.RestoreStreet(s), ErrGraphConstraintViolation))
	})

	t.Run("street needs its endpoints", func(t *testing.T) {
		g, is, ss := triangle(t)
		s, err := g.RemoveStreet(ss[0])
		require.NoError(t, err)
		_, err = g.RemoveIntersection(is[0], true)
		require.NoError(t, err)

		assert.True(t, errors.Is(g.RestoreStreet(s), ErrGraphConstraintViolation))
	})

	t.Run("intersection keeps tie break", func(t *testing.T) {
		g := New()
		first := g.AddIntersection(pt(-5, 0))
		g.AddIntersection(pt(5, 0))

		i, _ := g.Intersection(first)
		_, err := g.RemoveIntersection(first, false)
		require.NoError(t, err)
		require.NoError(t, g.RestoreIntersection(i))

		id, ok := g.NearestIntersection(pt(0, 0), 10)
		require.True(t, ok)
		assert.Equal(t, first, id)
		assert.Equal(t, first, g.Intersections()[0].ID)
		assert.True(t, errors.Is(g.RestoreIntersection(i), ErrGraphConstraintViolation))
	})

	t.Run("district stays under later districts", func(t *testing.T) {
		g := New()
		big := g.AddDistrict([]r2.Point{pt(0, 0), pt(100, 0), pt(100, 100), pt(0, 100)})
		small := g.AddDistrict([]r2.Point{pt(10, 10), pt(30, 10), pt(30, 30), pt(10, 30)})
		lots := [][]r2.Point{{pt(1, 1), pt(5, 1), pt(5, 5)}}
		require.NoError(t, g.SetDistrictLots(big, lots))

		d, err := g.RemoveDistrict(big)
		require.NoError(t, err)
		require.NoError(t, g.RestoreDistrict(d))

		id, _ := g.DistrictAt(pt(20, 20))
		assert.Equal(t, small, id)

		restored, _ := g.District(big)
		assert.Equal(t, lots, restored.Lots)
		assert.True(t, errors.Is(g.RestoreDistrict(d), ErrGraphConstraintViolation))
		assert.True(t, errors.Is(g.SetDistrictLots(uuid.New(), nil), ErrNotFound))
	})
}

func TestStreetBetween(t *testing.T) {
	g, is, ss := triangle(t)

	id, ok := g.StreetBetween(is[1], is[0])
	require.True(t, ok)
	assert.Equal(t, ss[0], id)

	_, ok = g.StreetBetween(is[0], is[0])
	assert.False(t, ok)
}
