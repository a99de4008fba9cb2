package streetgraph

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidshard/streetgraph/internal/graph"
)

func TestRender(t *testing.T) {
	e := newTestEditor(t, nil)
	triangle(e)
	e.TraceAll()
	e.ToggleDebug()

	streets := e.Graph().Streets()

	im := e.Image()
	assert.Equal(t, 400, im.Bounds().Dx())
	assert.Equal(t, 400, im.Bounds().Dy())

	// inside the first street, clear of the debug arrow & label
	r, g, b, _ := im.At(150, 103).RGBA()
	er, eg, eb, _ := e.scheme.Streets.Normal.RGBA()
	assert.Equal(t, []uint32{er, eg, eb}, []uint32{r, g, b})

	// rendering changes nothing
	assert.Equal(t, streets, e.Graph().Streets())
}

func TestRenderLayers(t *testing.T) {
	e := newTestEditor(t, nil)
	triangle(e)

	dc := gg.NewContext(400, 400)
	e.RenderLayers(dc, NewLayers(), nil)

	mid := e.Graph().Streets()[0].Line.Mid()
	r, g, b, _ := dc.Image().At(int(mid.X), int(mid.Y)).RGBA()
	er, eg, eb, _ := e.scheme.Background.RGBA()
	assert.Equal(t, []uint32{er, eg, eb}, []uint32{r, g, b})
}

func TestRenderLots(t *testing.T) {
	e := newTestEditor(t, nil)
	e.SetMinimumHouseSide(40)
	lattice(e)
	require.Equal(t, 4, e.TraceAll())

	layers := NewLayers()
	layers.Set(LayerDistricts, true)

	// a corner of the first district, well inside its corner lot
	colour := func() []uint32 {
		r, g, b, _ := e.ImageLayers(layers).At(60, 60).RGBA()
		return []uint32{r, g, b}
	}
	withLots := colour()

	e.SetMinimumHouseSide(MaxHouseSide)
	assert.NotEqual(t, withLots, colour())
}

func TestRenderOverlay(t *testing.T) {
	e := newTestEditor(t, nil)
	a := e.graph.AddIntersection(pt(100, 100))
	e.graph.SetIntersectionState(a, graph.Selected)

	e.SwitchMode(ModeMoveControl)
	assert.NotNil(t, e.Image())

	e.SwitchMode(ModeBoxSelect)
	e.MouseDown(pt(10, 10), ButtonLeft)
	e.MouseMove(pt(200, 200))
	assert.NotNil(t, e.Image())
}

func TestEncodePNG(t *testing.T) {
	e := newTestEditor(t, nil)
	triangle(e)

	buf := &bytes.Buffer{}
	require.NoError(t, e.EncodePNG(buf, DefaultLayers()))
	im, err := png.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 400, im.Bounds().Dx())

	fpath := filepath.Join(t.TempDir(), "map.png")
	require.NoError(t, e.SavePNG(fpath))
	require.NoError(t, e.SaveJSON(filepath.Join(t.TempDir(), "map.json")))
}
