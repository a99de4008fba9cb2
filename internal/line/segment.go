package line

import (
	"math"

	"github.com/golang/geo/r2"
)

// Segment is a directed line from Start to End.
type Segment struct {
	Start r2.Point
	End   r2.Point
}

// NewSegment returns the segment a -> b
func NewSegment(a, b r2.Point) Segment {
	return Segment{Start: a, End: b}
}

// Direction returns End - Start
func (s Segment) Direction() r2.Point {
	return s.End.Sub(s.Start)
}

// Length of the segment
func (s Segment) Length() float64 {
	return s.Direction().Norm()
}

// Mid point of the segment
func (s Segment) Mid() r2.Point {
	return s.Start.Add(s.End).Mul(0.5)
}

// Closest returns the point on the segment nearest to p.
// A zero length segment is treated as the point Start.
func (s Segment) Closest(p r2.Point) r2.Point {
	d := s.Direction()
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.Start
	}
	t := p.Sub(s.Start).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return s.Start.Add(d.Mul(t))
}

// Distance from p to the nearest point on the segment
func (s Segment) Distance(p r2.Point) float64 {
	return p.Sub(s.Closest(p)).Norm()
}

// Cross is the cross product of the segment direction and (p - Start).
// Positive values lie to the left of the segment.
func (s Segment) Cross(p r2.Point) float64 {
	return s.Direction().Cross(p.Sub(s.Start))
}

// Perpendicular returns the unit vector pointing to the left of the segment.
func (s Segment) Perpendicular() r2.Point {
	return s.Direction().Ortho().Normalize()
}

// Offset returns the rectangle covering the segment inflated by width/2 on
// either side, ordered start-left, end-left, end-right, start-right.
func (s Segment) Offset(width float64) []r2.Point {
	perp := s.Perpendicular().Mul(width / 2)
	return []r2.Point{
		s.Start.Add(perp),
		s.End.Add(perp),
		s.End.Sub(perp),
		s.Start.Sub(perp),
	}
}

// Angle of the direction vector in radians (-pi, pi]
func Angle(v r2.Point) float64 {
	return math.Atan2(v.Y, v.X)
}
