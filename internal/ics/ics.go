// Package ics encodes calendar events as an iCalendar (RFC 5545) document.
package ics

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/lukas-walker/solarkalender/internal/suncal"
)

const (
	ProductID   = "-//solarkalender//Sun Events//EN"
	Filename    = "sun-events.ics"
	ContentType = "text/calendar; charset=utf-8"

	propCalendarName = "X-WR-CALNAME"
	uidDomain        = "@solarkalender"
)

// lineBreaks folds CRLF and lone CR into LF, the only line break the
// TEXT encoding can escape.
var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

type Serializer struct {
	now     func() time.Time
	newUID  func() string
	calName string
}

type Option func(*Serializer)

// WithClock sets the clock used for DTSTAMP.
func WithClock(now func() time.Time) Option {
	return func(s *Serializer) { s.now = now }
}

// WithUIDs sets the generator for event UIDs.
func WithUIDs(next func() string) Option {
	return func(s *Serializer) { s.newUID = next }
}

// WithCalendarName sets X-WR-CALNAME, the display name most clients use when
// importing into a new calendar.
func WithCalendarName(name string) Option {
	return func(s *Serializer) { s.calName = name }
}

func NewSerializer(opts ...Option) *Serializer {
	s := &Serializer{
		now:    time.Now,
		newUID: func() string { return uuid.NewString() + uidDomain },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Serialize writes one VEVENT per event, in order. Times are written in UTC
// so no VTIMEZONE is needed.
func (s *Serializer) Serialize(events []suncal.CalendarEvent) (suncal.CalendarDocument, error) {
	// RFC 5545 requires at least one component in a VCALENDAR.
	if len(events) == 0 {
		return suncal.CalendarDocument{}, fmt.Errorf("no events: %w", suncal.ErrSerialization)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropMethod, "PUBLISH")
	if s.calName != "" {
		cal.Props.SetText(propCalendarName, s.calName)
	}

	stamp := s.now().UTC().Truncate(time.Second)
	seen := make(map[string]struct{}, len(events))

	for i, e := range events {
		if e.Start.IsZero() || e.End.Before(e.Start) {
			return suncal.CalendarDocument{}, fmt.Errorf("event %d %q: end %s before start %s: %w",
				i, e.Title, e.End, e.Start, suncal.ErrSerialization)
		}

		uid := s.newUID()
		if _, dup := seen[uid]; dup {
			return suncal.CalendarDocument{}, fmt.Errorf("event %d: duplicate uid %q: %w", i, uid, suncal.ErrSerialization)
		}
		seen[uid] = struct{}{}

		ev := ical.NewEvent()
		ev.Props.SetText(ical.PropUID, uid)
		ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		ev.Props.SetText(ical.PropSummary, lineBreaks.Replace(e.Title))
		ev.Props.SetDateTime(ical.PropDateTimeStart, e.Start.UTC())
		ev.Props.SetDateTime(ical.PropDateTimeEnd, e.End.UTC())
		ev.Props.SetText(ical.PropTransparency, "TRANSPARENT")
		if e.Kind != "" {
			ev.Props.SetText(ical.PropCategories, category(e.Kind))
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return suncal.CalendarDocument{}, fmt.Errorf("encoding calendar: %w: %w", suncal.ErrSerialization, err)
	}

	return suncal.CalendarDocument{
		Body:        buf.Bytes(),
		Filename:    Filename,
		ContentType: ContentType,
	}, nil
}

func category(k suncal.EventKind) string {
	switch k {
	case suncal.KindSunrise:
		return "SUNRISE"
	case suncal.KindSunset:
		return "SUNSET"
	default:
		return string(k)
	}
}
