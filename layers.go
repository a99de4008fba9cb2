package streetgraph

import (
	"strings"

	"github.com/boljen/go-bitmap"

	"github.com/voidshard/streetgraph/internal/encoding"
)

// Layer is one thing Render can draw
type Layer int

const (
	LayerDistricts Layer = iota
	LayerStreets
	LayerIntersections
	LayerOverlay // mode specific; selection box, gizmo etc
	LayerDebug
	numLayers
)

var layerNames = map[Layer]string{
	LayerDistricts:     "districts",
	LayerStreets:       "streets",
	LayerIntersections: "intersections",
	LayerOverlay:       "overlay",
	LayerDebug:         "debug",
}

// String returns the layer name
func (l Layer) String() string {
	return layerNames[l]
}

// Layers is a set of Layer, kept as a bitmap
type Layers struct {
	bm bitmap.Bitmap
}

// NewLayers returns a set holding the given layers
func NewLayers(ls ...Layer) Layers {
	set := Layers{bm: bitmap.New(8)}
	for _, l := range ls {
		set.Set(l, true)
	}
	return set
}

// DefaultLayers is everything but debug
func DefaultLayers() Layers {
	return NewLayers(LayerDistricts, LayerStreets, LayerIntersections, LayerOverlay)
}

// LayersFromMask builds a set from Mask()
func LayersFromMask(mask uint8) Layers {
	return Layers{bm: bitmap.Bitmap(encoding.ToBytes8(mask))}
}

// Mask packs the set into one byte, bit n is Layer n
func (s Layers) Mask() uint8 {
	if s.bm == nil {
		return 0
	}
	return encoding.FromBytes8(s.bm.Data(true))
}

// Has returns if the layer is in the set
func (s Layers) Has(l Layer) bool {
	if s.bm == nil || l < 0 || l >= numLayers {
		return false
	}
	return s.bm.Get(int(l))
}

// Set adds or removes a layer
func (s *Layers) Set(l Layer, on bool) {
	if l < 0 || l >= numLayers {
		return
	}
	if s.bm == nil {
		s.bm = bitmap.New(8)
	}
	s.bm.Set(int(l), on)
}

// String lists the layer names, eg. "streets,debug"
func (s Layers) String() string {
	names := []string{}
	for l := Layer(0); l < numLayers; l++ {
		if s.Has(l) {
			names = append(names, l.String())
		}
	}
	return strings.Join(names, ",")
}
