package voronoi

import (
	"math/rand"
	"time"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

var (
	// ErrNoSites is returned when asking for a diagram before placing any sites
	ErrNoSites = errors.New("voronoi diagram requires at least one site")
)

// Builder struct makes managing the setup of a voronoi diagram easier.
// Sites (centres of voronoi cells) are placed at random or by hand, subject
// to filters that keep the layout reasonably even.
type Builder struct {
	bounds r2.Rect
	sites  []r2.Point
	rng    *rand.Rand
	sfilt  []SiteFilter
	cfilt  []CandidateFilter
}

// NewBuilder returns a new Voronoi diagram builder
func NewBuilder(bounds r2.Rect) *Builder {
	return &Builder{
		bounds: bounds,
		sites:  []r2.Point{},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SiteCount returns how many sites we've currently got configured
func (b *Builder) SiteCount() int {
	return len(b.sites)
}

// Voronoi returns the Voronoi diagram given our current sites.
func (b *Builder) Voronoi() (*Voronoi, error) {
	if len(b.sites) == 0 {
		return nil, ErrNoSites
	}
	return newVoronoi(b), nil
}

// SetSeed sets our internal RNG seed
func (b *Builder) SetSeed(seed int64) {
	b.rng = rand.New(rand.NewSource(seed))
}

// SetCandidateFilters sets filters that accept / reject a proposed site without
// reference to other currently set site(s).
func (b *Builder) SetCandidateFilters(f ...CandidateFilter) {
	b.cfilt = f
}

// SetSiteFilters sets filters that compare proposed sites to all current sites.
func (b *Builder) SetSiteFilters(f ...SiteFilter) {
	b.sfilt = f
}

// AddRandomSite places a site at random, assuming it obeys all currently set filters.
func (b *Builder) AddRandomSite() (r2.Point, int, bool) {
	size := b.bounds.Size()
	candidate := r2.Point{
		X: b.bounds.X.Lo + b.rng.Float64()*size.X,
		Y: b.bounds.Y.Lo + b.rng.Float64()*size.Y,
	}

	id, ok := b.AddSite(candidate)
	if !ok {
		return r2.Point{}, 0, false
	}
	return candidate, id, true
}

// AddSite places a site at the given location, assuming it obeys currently set filters.
func (b *Builder) AddSite(p r2.Point) (int, bool) {
	if !b.bounds.ContainsPoint(p) || !b.accepted(p) {
		return 0, false
	}
	return b.addSite(p), true
}

// accepted returns if the proposed site location is acceptable to our filters.
// We run CandidateFilter(s) first so we can hopefully reject candidates early.
func (b *Builder) accepted(candidate r2.Point) bool {
	for _, fn := range b.cfilt {
		if !fn(candidate) {
			return false
		}
	}

	// check if we can reject with any SiteFilter, for every site
	for _, s := range b.sites {
		for _, fn := range b.sfilt {
			if !fn(candidate, s) {
				return false
			}
		}
	}

	return true
}

// addSite adds a site, no filters are run.
func (b *Builder) addSite(p r2.Point) int {
	id := len(b.sites)
	b.sites = append(b.sites, p)
	return id
}
