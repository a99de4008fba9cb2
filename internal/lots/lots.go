package lots

import (
	"encoding/binary"
	"math"
	"math/rand/v2"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/line"
)

const (
	// MinSide & MaxSide bound the minimum house side
	MinSide = 20.0
	MaxSide = 1000.0

	// maxLots stops runaway subdivision of huge districts
	maxLots = 4096

	// smallest & largest fraction of a piece given to one side of a cut
	cutLow  = 0.3
	cutHigh = 0.7

	eps = 1e-9
)

// Options for splitting a district into house lots
type Options struct {
	// Side is the minimum side of a lot, clamped to [MinSide, MaxSide].
	// Zero or less means no lots.
	Side float64

	// Seed is mixed with the district id to pick cut positions
	Seed int64
}

// Clamp a minimum house side into [MinSide, MaxSide]
func Clamp(side float64) float64 {
	return math.Max(MinSide, math.Min(MaxSide, side))
}

// Frame is a 2D frame aligned with the longest edge of a polygon.
// Lot sizes are measured along its two axes.
type Frame struct {
	Origin r2.Point
	U      r2.Point // unit vector along the longest edge
	V      r2.Point // unit vector perpendicular to U
}

// NewFrame returns the frame of the longest edge of ring
func NewFrame(ring []r2.Point) Frame {
	var longest line.Segment
	for i := range ring {
		s := line.NewSegment(ring[i], ring[(i+1)%len(ring)])
		if s.Length() > longest.Length() {
			longest = s
		}
	}

	u := r2.Point{X: 1}
	if longest.Length() > 0 {
		u = longest.Direction().Normalize()
	}
	return Frame{Origin: longest.Start, U: u, V: u.Ortho()}
}

// Extent returns the bounds of pts in frame coordinates
func (f Frame) Extent(pts []r2.Point) r2.Rect {
	local := make([]r2.Point, len(pts))
	for i, p := range pts {
		d := p.Sub(f.Origin)
		local[i] = r2.Point{X: d.Dot(f.U), Y: d.Dot(f.V)}
	}
	return line.Bounds(local)
}

// Subdivide splits the district polygon into house lots.
//
// Pieces are cut across their longest extent (in the frame of the district)
// until that extent is below twice the minimum side. Pieces narrower than
// the minimum side on either axis are left without a house. Every lot is
// clipped out of polygon so lies within it.
// The same polygon, id & options always give the same lots.
func Subdivide(polygon []r2.Point, id uuid.UUID, opts Options) [][]r2.Point {
	if opts.Side <= 0 || len(polygon) < 3 {
		return nil
	}
	side := Clamp(opts.Side)

	f := NewFrame(polygon)
	rng := rand.New(rand.NewChaCha8(seed(id, opts.Seed)))

	out := [][]r2.Point{}
	pending := [][]r2.Point{append([]r2.Point(nil), polygon...)}

	for len(pending) > 0 && len(out) < maxLots {
		piece := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		ext := f.Extent(piece)
		size := ext.Size()
		if size.X+eps < side || size.Y+eps < side {
			continue
		}

		axis, lo, extent := f.U, ext.X.Lo, size.X
		if size.Y > size.X {
			axis, lo, extent = f.V, ext.Y.Lo, size.Y
		}
		if extent+eps < 2*side {
			out = append(out, piece)
			continue
		}

		low := math.Max(cutLow, side/extent)
		high := math.Min(cutHigh, 1-side/extent)
		cut := lo + (low+rng.Float64()*(high-low))*extent

		origin := f.Origin.Add(axis.Mul(cut))
		above := tidy(line.ClipHalfPlane(piece, origin, axis.Mul(-1)))
		below := tidy(line.ClipHalfPlane(piece, origin, axis))

		// below is handled first
		if len(above) >= 3 {
			pending = append(pending, above)
		}
		if len(below) >= 3 {
			pending = append(pending, below)
		}
	}

	return out
}

// tidy drops repeated points & rings without area
func tidy(ring []r2.Point) []r2.Point {
	out := make([]r2.Point, 0, len(ring))
	for _, p := range ring {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	if math.Abs(line.SignedArea(out)) < 1e-9 {
		return nil
	}
	return out
}

// seed builds the rng seed of a district
func seed(id uuid.UUID, s int64) [32]byte {
	var out [32]byte
	copy(out[:16], id[:])
	binary.BigEndian.PutUint64(out[16:24], uint64(s))
	return out
}
