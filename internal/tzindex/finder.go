package tzindex

import (
	"fmt"

	"github.com/ringsaturn/tzf"
)

// Finder is the production index backed by the embedded
// timezone-boundary-builder polygons shipped with tzf.
type Finder struct {
	f tzf.F
}

// NewFinder decodes the embedded dataset. It is slow and allocates a lot, so
// call it once per process.
func NewFinder() (*Finder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("loading timezone boundaries: %w", err)
	}
	return &Finder{f: f}, nil
}

func (f *Finder) Lookup(lat, lon float64) string {
	return f.f.GetTimezoneName(lon, lat)
}
