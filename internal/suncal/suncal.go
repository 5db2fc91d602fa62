// Package suncal defines the core domain types and errors of the sun event
// calendar. It imports nothing outside the standard library.
package suncal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var (
	// ErrInvalidRequest marks malformed or incomplete input. It is detected
	// before any computation runs.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrZoneNotFound means no timezone covers a coordinate.
	ErrZoneNotFound = errors.New("timezone not found for coordinates")

	// ErrNoSunrise and ErrNoSunset report polar day or night on a date.
	// They are recovered per date and never fail a whole request.
	ErrNoSunrise = errors.New("no sunrise on this date")
	ErrNoSunset  = errors.New("no sunset on this date")

	// ErrNoEvents means the requested dates contain none of the selected
	// events, e.g. sunsets during the midnight sun.
	ErrNoEvents = errors.New("no sun events in the selected range")

	// ErrSerialization means events could not be encoded as a calendar.
	ErrSerialization = errors.New("calendar serialization failed")
)

type Coordinate struct {
	Lat float64
	Lon float64
}

func (c Coordinate) Validate() error {
	switch {
	case math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0):
		return fmt.Errorf("%w: latitude must be a finite number", ErrInvalidRequest)
	case math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0):
		return fmt.Errorf("%w: longitude must be a finite number", ErrInvalidRequest)
	case c.Lat < -90 || c.Lat > 90:
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidRequest)
	case c.Lon < -180 || c.Lon > 180:
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidRequest)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lon)
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD. An ISO date-time is also accepted and its
// date part is used as written, without converting between offsets.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) && (s[len(dateLayout)] == 'T' || s[len(dateLayout)] == ' ') {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: date %q is not in YYYY-MM-DD form", ErrInvalidRequest, s)
	}
	return DateOf(t), nil
}

// DateOf returns the date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns local midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Before(o Date) bool {
	return d.In(time.UTC).Before(o.In(time.UTC))
}

func (d Date) String() string {
	return d.In(time.UTC).Format(dateLayout)
}

// DateRange is inclusive on both ends.
type DateRange struct {
	Start Date
	End   Date
}

// Days returns the number of dates in r, or 0 when Start is after End.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(r.End.In(time.UTC).Sub(r.Start.In(time.UTC)).Hours()/24) + 1
}

type EventSpec struct {
	SunriseTitle    string
	SunsetTitle     string
	DurationMinutes int
	IncludeSunrise  bool
	IncludeSunset   bool
}

func (s EventSpec) Validate() error {
	if !s.IncludeSunrise && !s.IncludeSunset {
		return fmt.Errorf("%w: select at least sunrise or sunset", ErrInvalidRequest)
	}
	if s.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalidRequest)
	}
	return nil
}

func (s EventSpec) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// SunInstant holds the sun events of one civil date. A field is the zero
// time when that event does not occur on the date.
type SunInstant struct {
	Sunrise time.Time
	Sunset  time.Time
}

type EventKind string

const (
	KindSunrise EventKind = "sunrise"
	KindSunset  EventKind = "sunset"
)

type CalendarEvent struct {
	Title string
	Kind  EventKind
	Start time.Time
	End   time.Time
}

// CalendarDocument is a finished calendar file.
type CalendarDocument struct {
	Body        []byte
	Filename    string
	ContentType string
}

// Request is a fully validated generation request.
type Request struct {
	Coordinate Coordinate
	Range      DateRange
	Spec       EventSpec
}
