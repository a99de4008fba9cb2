package line

import (
	"math"

	"github.com/golang/geo/r2"
)

// Contains reports whether p lies inside the closed ring.
// Ray cast across every edge (including the implicit closing edge), a point
// exactly on a horizontal edge counts as outside.
func Contains(ring []r2.Point, p r2.Point) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// SignedArea of the ring via the shoelace formula. Positive when the ring
// turns towards the positive cross product side (counter clockwise in a
// y-up frame).
func SignedArea(ring []r2.Point) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		sum += a.Cross(b)
	}
	return sum / 2
}

// Centroid is the arithmetic mean of the given points.
func Centroid(pts []r2.Point) (r2.Point, bool) {
	if len(pts) == 0 {
		return r2.Point{}, false
	}
	sum := r2.Point{}
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(pts))), true
}

// ClipHalfPlane returns the part of ring on the side where
// (p - origin) . normal <= 0.
// A concave ring cut into several pieces comes back as one ring joined by
// zero width bridges along the cut.
func ClipHalfPlane(ring []r2.Point, origin, normal r2.Point) []r2.Point {
	out := []r2.Point{}
	n := len(ring)
	for i := range ring {
		prev, cur := ring[(i+n-1)%n], ring[i]
		dp := prev.Sub(origin).Dot(normal)
		dc := cur.Sub(origin).Dot(normal)

		if dc <= 0 {
			if dp > 0 && dc < 0 {
				out = append(out, crossing(prev, cur, dp, dc))
			}
			out = append(out, cur)
		} else if dp < 0 {
			out = append(out, crossing(prev, cur, dp, dc))
		}
	}
	return out
}

// crossing is the point between a & b where the signed distance goes
// from da to db through zero
func crossing(a, b r2.Point, da, db float64) r2.Point {
	t := da / (da - db)
	return a.Add(b.Sub(a).Mul(t))
}

// Bounds returns the smallest rectangle containing every point.
func Bounds(pts []r2.Point) r2.Rect {
	return r2.RectFromPoints(pts...)
}

// SameRing reports whether a and b describe the same closed ring, allowing
// for a different starting vertex (but not reversed winding).
func SameRing(a, b []r2.Point, eps float64) bool {
	if len(a) != len(b) || len(a) == 0 {
		return false
	}
	n := len(a)
	for offset := 0; offset < n; offset++ {
		match := true
		for i := 0; i < n; i++ {
			if !nearlyEqual(a[i], b[(i+offset)%n], eps) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func nearlyEqual(a, b r2.Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}
