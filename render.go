package streetgraph

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/golang/geo/r2"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/voidshard/streetgraph/internal/graph"
)

// StateColours colours an element by its interaction state
type StateColours struct {
	Normal   color.Color
	Hover    color.Color
	Selected color.Color
}

// For returns the colour for the given state
func (s *StateColours) For(st graph.State) color.Color {
	switch st {
	case graph.Hover:
		return s.Hover
	case graph.Selected:
		return s.Selected
	default:
		return s.Normal
	}
}

// ColourScheme defines how the map & overlays are coloured.
type ColourScheme struct {
	Background    color.Color
	Streets       StateColours
	Intersections StateColours
	Districts     StateColours
	DistrictEdge  color.Color
	Lots          color.Color
	LotEdge       color.Color
	SelectionBox  color.Color
	Gizmo         color.Color
	Debug         color.Color
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Background: colornames.Whitesmoke,
		Streets: StateColours{
			Normal:   colornames.Dimgray,
			Hover:    colornames.Orange,
			Selected: colornames.Royalblue,
		},
		Intersections: StateColours{
			Normal:   colornames.Black,
			Hover:    colornames.Orange,
			Selected: colornames.Crimson,
		},
		Districts: StateColours{
			Normal:   withAlpha(colornames.Lightgreen, 160),
			Hover:    withAlpha(colornames.Gold, 160),
			Selected: withAlpha(colornames.Steelblue, 160),
		},
		DistrictEdge: colornames.Darkgreen,
		Lots:         withAlpha(colornames.Burlywood, 200),
		LotEdge:      colornames.Saddlebrown,
		SelectionBox: colornames.Royalblue,
		Gizmo:        colornames.Fuchsia,
		Debug:        colornames.Firebrick,
	}
}

// SetScheme changes the colours used by Render
func (e *Editor) SetScheme(scheme *ColourScheme) {
	if scheme != nil {
		e.scheme = scheme
	}
}

// SetLayers changes what Render draws
func (e *Editor) SetLayers(layers Layers) {
	e.layers = layers
}

// Render draws the map with the editor camera & layers.
func (e *Editor) Render(dc *gg.Context) {
	e.RenderLayers(dc, e.layers, e.camera)
}

// RenderLayers draws the given layers of the map through cam.
// Nothing in the editor is changed.
func (e *Editor) RenderLayers(dc *gg.Context, layers Layers, cam *Camera) {
	if cam == nil {
		cam = e.camera
	}
	scheme := e.scheme

	dc.SetColor(scheme.Background)
	dc.Clear()

	dc.Push()
	dc.Scale(cam.Zoom, cam.Zoom)
	dc.Translate(-cam.Offset.X, -cam.Offset.Y)

	if layers.Has(LayerDistricts) {
		for _, d := range e.graph.Districts() {
			drawPolygon(dc, d.Polygon)
			dc.SetColor(scheme.Districts.For(d.State))
			dc.FillPreserve()
			dc.SetColor(scheme.DistrictEdge)
			dc.SetLineWidth(1 / cam.Zoom)
			dc.Stroke()

			for _, lot := range d.Lots {
				drawPolygon(dc, lot)
				dc.SetColor(scheme.Lots)
				dc.FillPreserve()
				dc.SetColor(scheme.LotEdge)
				dc.Stroke()
			}
		}
	}

	if layers.Has(LayerStreets) {
		for _, s := range e.graph.Streets() {
			drawPolygon(dc, s.Polygon)
			dc.SetColor(scheme.Streets.For(s.State))
			dc.Fill()
		}
	}

	if layers.Has(LayerIntersections) {
		r := cam.Scale(e.cfg.IntersectionTolerance) / 2
		for _, i := range e.graph.Intersections() {
			dc.DrawCircle(i.Position.X, i.Position.Y, r)
			dc.SetColor(scheme.Intersections.For(i.State))
			dc.Fill()
		}
	}

	if layers.Has(LayerOverlay) {
		e.drawOverlay(dc, cam)
	}

	dc.Pop()

	if layers.Has(LayerDebug) {
		e.drawDebug(dc, cam)
	}
}

// drawOverlay draws mode specific decorations, in world space
func (e *Editor) drawOverlay(dc *gg.Context, cam *Camera) {
	scheme := e.scheme

	if box, ok := e.SelectionBox(); ok {
		size := box.Size()
		dc.DrawRectangle(box.X.Lo, box.Y.Lo, size.X, size.Y)
		dc.SetColor(scheme.SelectionBox)
		dc.SetLineWidth(1 / cam.Zoom)
		dc.SetDash(4/cam.Zoom, 4/cam.Zoom)
		dc.Stroke()
		dc.SetDash()
	}

	if pos, ok := e.Gizmo(); ok {
		r := cam.Scale(e.cfg.GizmoRadius)
		dc.DrawCircle(pos.X, pos.Y, r)
		dc.SetColor(scheme.Gizmo)
		dc.SetLineWidth(2 / cam.Zoom)
		dc.Stroke()
		dc.DrawLine(pos.X-r, pos.Y, pos.X+r, pos.Y)
		dc.DrawLine(pos.X, pos.Y-r, pos.X, pos.Y+r)
		dc.Stroke()
	}
}

var (
	debugFaceOnce sync.Once
	debugFace     font.Face
)

// debugFontFace returns the face used for debug labels, nil if the
// embedded font cannot be parsed
func debugFontFace() font.Face {
	debugFaceOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return
		}
		debugFace = truetype.NewFace(f, &truetype.Options{
			Size:    11,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	})
	return debugFace
}

// drawDebug draws street directions, ids & element counts in screen space
func (e *Editor) drawDebug(dc *gg.Context, cam *Camera) {
	dc.SetColor(e.scheme.Debug)
	dc.SetLineWidth(1)

	face := debugFontFace()
	if face != nil {
		dc.SetFontFace(face)
	}

	for _, s := range e.graph.Streets() {
		a := cam.ToScreen(s.Line.Start)
		b := cam.ToScreen(s.Line.End)
		drawArrow(dc, a, b)

		if face != nil {
			mid := a.Add(b).Mul(0.5)
			dc.DrawStringAnchored(s.ID.String()[:8], mid.X, mid.Y, 0.5, -0.5)
		}
	}

	if face == nil {
		return
	}
	undo, redo, _ := e.History()
	lines := []string{
		fmt.Sprintf("mode: %s", e.mode.kind),
		fmt.Sprintf("intersections: %d", e.graph.NumIntersections()),
		fmt.Sprintf("streets: %d", e.graph.NumStreets()),
		fmt.Sprintf("districts: %d", e.graph.NumDistricts()),
		fmt.Sprintf("history: %d/%d", undo, redo),
	}
	for n, l := range lines {
		dc.DrawString(l, 8, 16+float64(n)*14)
	}
}

// drawArrow strokes a line from a to b with a head at b
func drawArrow(dc *gg.Context, a, b r2.Point) {
	dir := b.Sub(a)
	if dir.Norm() == 0 {
		return
	}
	dc.DrawLine(a.X, a.Y, b.X, b.Y)

	head := dir.Normalize().Mul(8)
	side := head.Ortho().Mul(0.5)
	base := b.Sub(head)
	dc.MoveTo(b.X, b.Y)
	dc.LineTo(base.X+side.X, base.Y+side.Y)
	dc.MoveTo(b.X, b.Y)
	dc.LineTo(base.X-side.X, base.Y-side.Y)
	dc.Stroke()
}

// drawPolygon adds a closed path through pts
func drawPolygon(dc *gg.Context, pts []r2.Point) {
	if len(pts) < 3 {
		return
	}
	dc.NewSubPath()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
}

// Image renders the map onto a new canvas of the configured size
func (e *Editor) Image() image.Image {
	dc := gg.NewContext(e.cfg.Width, e.cfg.Height)
	e.Render(dc)
	return dc.Image()
}

// ImageLayers renders the given layers onto a new canvas of the configured size
func (e *Editor) ImageLayers(layers Layers) image.Image {
	dc := gg.NewContext(e.cfg.Width, e.cfg.Height)
	e.RenderLayers(dc, layers, e.camera)
	return dc.Image()
}

// SavePNG renders the map & writes it to the given path
func (e *Editor) SavePNG(fpath string) error {
	dc := gg.NewContext(e.cfg.Width, e.cfg.Height)
	e.Render(dc)
	return dc.SavePNG(fpath)
}

// EncodePNG renders the given layers & writes them as a PNG
func (e *Editor) EncodePNG(w io.Writer, layers Layers) error {
	dc := gg.NewContext(e.cfg.Width, e.cfg.Height)
	e.RenderLayers(dc, layers, e.camera)
	return dc.EncodePNG(w)
}

func withAlpha(c color.RGBA, a uint8) color.Color {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}
