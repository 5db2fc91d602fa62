// Package schedule turns sun events over a date range into calendar events.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	// LoadLocation must work on hosts without a zoneinfo database.
	_ "time/tzdata"

	"github.com/teambition/rrule-go"

	"github.com/lukas-walker/solarkalender/internal/suncal"
)

// SunCalculator computes the sun events of one civil date. A missing event
// is reported by wrapping suncal.ErrNoSunrise or suncal.ErrNoSunset.
type SunCalculator interface {
	Compute(c suncal.Coordinate, loc *time.Location, d suncal.Date) (suncal.SunInstant, error)
}

// conditionReporter is implemented by calculators that can say why a date
// has no sunrise or sunset.
type conditionReporter interface {
	Condition(c suncal.Coordinate, d suncal.Date) string
}

type Builder struct {
	calc   SunCalculator
	logger *slog.Logger
}

func NewBuilder(calc SunCalculator, logger *slog.Logger) *Builder {
	return &Builder{calc: calc, logger: logger}
}

// Build calls the calculator once per date from r.Start to r.End inclusive
// and returns the selected events in chronological order. A reversed range
// yields no events. Dates without a sunrise or sunset skip just that event.
func (b *Builder) Build(ctx context.Context, c suncal.Coordinate, tzID string, r suncal.DateRange, spec suncal.EventSpec) ([]suncal.CalendarEvent, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	loc, err := time.LoadLocation(tzID)
	if tzID == "" || err != nil {
		return nil, fmt.Errorf("loading zone %q: %w", tzID, suncal.ErrZoneNotFound)
	}

	days := r.Days()
	if days == 0 {
		return []suncal.CalendarEvent{}, nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.DAILY,
		Dtstart: r.Start.In(time.UTC),
		Until:   r.End.In(time.UTC),
	})
	if err != nil {
		return nil, fmt.Errorf("building date rule: %w", err)
	}

	perDay := 0
	if spec.IncludeSunrise {
		perDay++
	}
	if spec.IncludeSunset {
		perDay++
	}
	events := make([]suncal.CalendarEvent, 0, days*perDay)
	dur := spec.Duration()

	next := rule.Iterator()
	for t, ok := next(); ok; t, ok = next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		d := suncal.DateOf(t)
		si, err := b.calc.Compute(c, loc, d)
		noRise := errors.Is(err, suncal.ErrNoSunrise)
		noSet := errors.Is(err, suncal.ErrNoSunset)
		if err != nil && !noRise && !noSet {
			return nil, fmt.Errorf("computing sun events for %s: %w", d, err)
		}
		if err != nil && b.logger.Enabled(ctx, slog.LevelDebug) {
			attrs := []any{
				"date", d.String(),
				"coordinate", c.String(),
				"no_sunrise", noRise,
				"no_sunset", noSet,
			}
			if cr, ok := b.calc.(conditionReporter); ok {
				attrs = append(attrs, "condition", cr.Condition(c, d))
			}
			b.logger.DebugContext(ctx, "sun event missing", attrs...)
		}

		if spec.IncludeSunrise && !noRise && !si.Sunrise.IsZero() {
			events = append(events, suncal.CalendarEvent{
				Title: spec.SunriseTitle,
				Kind:  suncal.KindSunrise,
				Start: si.Sunrise,
				End:   si.Sunrise.Add(dur),
			})
		}
		if spec.IncludeSunset && !noSet && !si.Sunset.IsZero() {
			events = append(events, suncal.CalendarEvent{
				Title: spec.SunsetTitle,
				Kind:  suncal.KindSunset,
				Start: si.Sunset,
				End:   si.Sunset.Add(dur),
			})
		}
	}

	return events, nil
}
