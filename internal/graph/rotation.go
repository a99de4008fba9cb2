package graph

import (
	"math"

	"github.com/google/uuid"

	"github.com/voidshard/streetgraph/internal/line"
)

// RotationNext returns the street following `street` around its end
// intersection.
//
// Starting from the direction end -> start we rotate clockwise for the Left
// side and counter-clockwise for the Right side; the first other street met
// is returned. Ie. walking start -> end with the face on side, this is the
// street that keeps hugging that face.
func (g *Graph) RotationNext(street uuid.UUID, side Side) (uuid.UUID, bool) {
	s, ok := g.streets[street]
	if !ok {
		return uuid.Nil, false
	}
	return g.rotate(s, s.End, side == Left)
}

// RotationPrevious returns the street following `street` around its start
// intersection, for a walk going end -> start.
//
// Starting from the direction start -> end we rotate clockwise for the Right
// side and counter-clockwise for the Left side.
func (g *Graph) RotationPrevious(street uuid.UUID, side Side) (uuid.UUID, bool) {
	s, ok := g.streets[street]
	if !ok {
		return uuid.Nil, false
	}
	return g.rotate(s, s.Start, side == Right)
}

// rotate finds the street at pivot v with the smallest sweep away from
// `from`, measured in (0, 2pi]. A street exactly colinear with `from`
// sweeps a full turn. Equal sweeps go to the earliest inserted street.
func (g *Graph) rotate(from *Street, v uuid.UUID, clockwise bool) (uuid.UUID, bool) {
	pivot := g.intersections[v].Position
	ref := line.Angle(g.intersections[from.Other(v)].Position.Sub(pivot))

	best := uuid.Nil
	bestSweep := math.Inf(1)
	var bestSeq uint64

	for _, sid := range g.incident[v] {
		if sid == from.ID {
			continue
		}
		s := g.streets[sid]
		a := line.Angle(g.intersections[s.Other(v)].Position.Sub(pivot))

		sweep := a - ref
		if clockwise {
			sweep = ref - a
		}
		sweep = normaliseSweep(sweep)

		if sweep < bestSweep || (sweep == bestSweep && s.seq < bestSeq) {
			best, bestSweep, bestSeq = sid, sweep, s.seq
		}
	}

	return best, best != uuid.Nil
}

// normaliseSweep maps an angle into (0, 2pi]
func normaliseSweep(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a
}
