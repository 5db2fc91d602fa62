// Package sun computes sunrise and sunset for a place and a civil date.
package sun

import (
	"errors"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/lukas-walker/solarkalender/internal/suncal"
)

// horizon is the apparent elevation of the sun's upper limb at rise and set,
// including refraction.
const horizon = -0.833

type Calculator struct{}

func NewCalculator() Calculator {
	return Calculator{}
}

// Compute returns the sunrise and sunset that fall on date d in loc. The day
// runs from local midnight to the next local midnight, so it can be 23 or 25
// hours long across a DST change.
//
// When an event does not occur on d the corresponding field is zero and the
// returned error wraps suncal.ErrNoSunrise, suncal.ErrNoSunset or both. The
// event that did occur is still returned.
func (Calculator) Compute(c suncal.Coordinate, loc *time.Location, d suncal.Date) (suncal.SunInstant, error) {
	if loc == nil {
		return suncal.SunInstant{}, fmt.Errorf("%w: no timezone for %s", suncal.ErrInvalidRequest, c)
	}

	dayStart := d.In(loc)
	dayEnd := d.AddDays(1).In(loc)
	within := func(t time.Time) bool {
		return !t.IsZero() && !t.Before(dayStart) && t.Before(dayEnd)
	}

	// The UTC date of a local event can differ from d by one in either
	// direction, so look at the neighbours too.
	var out suncal.SunInstant
	for offset := -1; offset <= 1; offset++ {
		u := d.AddDays(offset)
		rise, set := sunrise.SunriseSunset(c.Lat, c.Lon, u.Year, u.Month, u.Day)
		if within(rise) && (out.Sunrise.IsZero() || rise.Before(out.Sunrise)) {
			out.Sunrise = rise.In(loc)
		}
		if within(set) && (out.Sunset.IsZero() || set.After(out.Sunset)) {
			out.Sunset = set.In(loc)
		}
	}

	var errs []error
	if out.Sunrise.IsZero() {
		errs = append(errs, suncal.ErrNoSunrise)
	}
	if out.Sunset.IsZero() {
		errs = append(errs, suncal.ErrNoSunset)
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("%s on %s: %w", c, d, errors.Join(errs...))
	}
	return out, nil
}

type PolarState int

const (
	Normal PolarState = iota
	PolarDay
	PolarNight
)

func (s PolarState) String() string {
	switch s {
	case PolarDay:
		return "polar day"
	case PolarNight:
		return "polar night"
	default:
		return "normal"
	}
}

// Condition names the polar state of d at c. The schedule builder logs it
// when a date lacks an event.
func (Calculator) Condition(c suncal.Coordinate, d suncal.Date) string {
	return Polar(c, d).String()
}

// Polar reports whether the sun stays above or below the horizon for the
// whole UTC day d at c.
func Polar(c suncal.Coordinate, d suncal.Date) PolarState {
	rise, set := sunrise.SunriseSunset(c.Lat, c.Lon, d.Year, d.Month, d.Day)
	if !rise.IsZero() || !set.IsZero() {
		return Normal
	}

	// Mean solar noon at this longitude.
	noon := d.In(time.UTC).Add(12*time.Hour - time.Duration(c.Lon/15*float64(time.Hour)))
	if sunrise.Elevation(c.Lat, c.Lon, noon) > horizon {
		return PolarDay
	}
	return PolarNight
}
