// Package tzindex maps coordinates to IANA timezone names.
//
// An Index is built once and only read afterwards, so a single value can be
// shared by every request without locking.
package tzindex

import (
	"context"
	"fmt"
	"time"
	// Resolved names must load on hosts without a zoneinfo database.
	_ "time/tzdata"

	"github.com/lukas-walker/solarkalender/internal/suncal"
)

// Index looks up the timezone covering a point. It returns "" when no zone
// covers it.
type Index interface {
	Lookup(lat, lon float64) string
}

// readier is implemented by indexes that may fail to become available.
type readier interface {
	Ready() error
}

// probe is the Royal Observatory, Greenwich.
var probe = suncal.Coordinate{Lat: 51.4779, Lon: -0.0015}

type Resolver struct {
	idx Index
}

func NewResolver(idx Index) *Resolver {
	return &Resolver{idx: idx}
}

// Resolve returns the IANA name of the zone covering c. Range checks are the
// caller's job; only the existence of a usable zone is verified here.
func (r *Resolver) Resolve(c suncal.Coordinate) (string, error) {
	if err := r.ready(); err != nil {
		return "", fmt.Errorf("timezone index unavailable: %w", err)
	}

	name := r.idx.Lookup(c.Lat, c.Lon)
	if name == "" {
		return "", fmt.Errorf("resolving %s: %w", c, suncal.ErrZoneNotFound)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return "", fmt.Errorf("resolving %s: zone %q is not loadable: %w", c, name, suncal.ErrZoneNotFound)
	}
	return name, nil
}

// Check reports whether the index is built and resolves a known point.
func (r *Resolver) Check(_ context.Context) error {
	if err := r.ready(); err != nil {
		return err
	}
	if name := r.idx.Lookup(probe.Lat, probe.Lon); name == "" {
		return fmt.Errorf("probe %s: %w", probe, suncal.ErrZoneNotFound)
	}
	return nil
}

func (r *Resolver) ready() error {
	if rd, ok := r.idx.(readier); ok {
		return rd.Ready()
	}
	return nil
}
