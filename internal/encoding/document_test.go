package encoding

import (
	"encoding/json"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/streetgraph/internal/graph"
)

func TestRoundTrip(t *testing.T) {
	g := graph.New()
	a := g.AddIntersection(r2.Point{X: 0, Y: 0})
	b := g.AddIntersection(r2.Point{X: 10, Y: 0})
	c := g.AddIntersection(r2.Point{X: 0, Y: 10})
	ab, err := g.AddStreet(a, b, 3)
	require.NoError(t, err)
	_, err = g.AddStreet(b, c, 3)
	require.NoError(t, err)
	d := g.AddDistrict([]r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}})
	g.SetStreetState(ab, graph.Selected)
	lot := []r2.Point{{X: 1, Y: 1}, {X: 4, Y: 1}, {X: 1, Y: 4}}
	require.NoError(t, g.SetDistrictLots(d, [][]r2.Point{lot}))

	data, err := Marshal(g)
	require.NoError(t, err)

	out, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, g.NumIntersections(), out.NumIntersections())
	assert.Equal(t, g.NumStreets(), out.NumStreets())

	s, ok := out.Street(ab)
	require.True(t, ok)
	assert.Equal(t, a, s.Start)
	assert.Equal(t, b, s.End)
	assert.Equal(t, 3.0, s.Width)
	assert.Equal(t, graph.Normal, s.State)
	assert.Len(t, s.Polygon, 4)

	dist, ok := out.District(d)
	require.True(t, ok)
	assert.Equal(t, []r2.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}, dist.Polygon)
	assert.Equal(t, [][]r2.Point{lot}, dist.Lots)

	// insertion order survives
	assert.Equal(t, FromGraph(g), FromGraph(out))
}

func TestStableFieldNames(t *testing.T) {
	g := graph.New()
	a := g.AddIntersection(r2.Point{X: 1, Y: 2})
	b := g.AddIntersection(r2.Point{X: 3, Y: 4})
	_, err := g.AddStreet(a, b, 5)
	require.NoError(t, err)

	data, err := Marshal(g)
	require.NoError(t, err)

	raw := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.EqualValues(t, Version, raw["version"])
	for _, key := range []string{"intersections", "streets", "districts"} {
		assert.Contains(t, raw, key)
	}

	street := raw["streets"].([]interface{})[0].(map[string]interface{})
	for _, key := range []string{"id", "start", "end", "width"} {
		assert.Contains(t, street, key)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	t.Run("newer version", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"version": 99}`))
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("broken json", func(t *testing.T) {
		_, err := Unmarshal([]byte(`{"version": `))
		assert.Error(t, err)
	})

	t.Run("dangling street", func(t *testing.T) {
		data := []byte(`{"version":1,"intersections":[],"streets":[{"id":"8c1c0bb6-3c83-4d1e-9c59-3b0b0d3b6a11","start":"8c1c0bb6-3c83-4d1e-9c59-3b0b0d3b6a12","end":"8c1c0bb6-3c83-4d1e-9c59-3b0b0d3b6a13","width":1}]}`)
		_, err := Unmarshal(data)
		assert.ErrorIs(t, err, graph.ErrGraphConstraintViolation)
	})
}

func TestBytes8(t *testing.T) {
	for _, v := range []uint8{0, 1, 7, 128, 255} {
		assert.Equal(t, v, FromBytes8(ToBytes8(v)))
	}
	assert.Equal(t, uint8(0), FromBytes8(nil))
}
