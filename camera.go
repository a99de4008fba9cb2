package streetgraph

import (
	"github.com/golang/geo/r2"
)

// Camera maps world positions onto the screen.
// screen = (world - Offset) * Zoom
type Camera struct {
	Offset r2.Point
	Zoom   float64
}

// NewCamera returns a camera with no pan & no zoom
func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

// ToWorld converts a screen position to world space
func (c *Camera) ToWorld(screen r2.Point) r2.Point {
	return screen.Mul(1 / c.Zoom).Add(c.Offset)
}

// ToScreen converts a world position to screen space
func (c *Camera) ToScreen(world r2.Point) r2.Point {
	return world.Sub(c.Offset).Mul(c.Zoom)
}

// Scale converts a screen distance to world distance
func (c *Camera) Scale(screen float64) float64 {
	return screen / c.Zoom
}

// Pan moves the view by a screen space delta
func (c *Camera) Pan(delta r2.Point) {
	c.Offset = c.Offset.Sub(delta.Mul(1 / c.Zoom))
}

// ZoomAt multiplies the zoom by factor keeping the world position under
// the screen point `at` fixed.
func (c *Camera) ZoomAt(at r2.Point, factor float64) {
	if factor <= 0 {
		return
	}
	w := c.ToWorld(at)
	c.Zoom *= factor
	c.Offset = w.Sub(at.Mul(1 / c.Zoom))
}
