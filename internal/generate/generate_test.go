package generate_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	goical "github.com/arran4/golang-ical"

	"github.com/lukas-walker/solarkalender/internal/generate"
	"github.com/lukas-walker/solarkalender/internal/ics"
	"github.com/lukas-walker/solarkalender/internal/schedule"
	"github.com/lukas-walker/solarkalender/internal/sun"
	"github.com/lukas-walker/solarkalender/internal/suncal"
	"github.com/lukas-walker/solarkalender/internal/tzindex"
)

var june20 = suncal.Date{Year: 2024, Month: time.June, Day: 20}

type spyResolver struct {
	inner generate.ZoneResolver
	calls int
}

func (s *spyResolver) Resolve(c suncal.Coordinate) (string, error) {
	s.calls++
	return s.inner.Resolve(c)
}

type spyBuilder struct {
	inner generate.EventBuilder
	calls int
}

func (s *spyBuilder) Build(ctx context.Context, c suncal.Coordinate, tz string, r suncal.DateRange, spec suncal.EventSpec) ([]suncal.CalendarEvent, error) {
	s.calls++
	return s.inner.Build(ctx, c, tz, r, spec)
}

type failingSerializer struct{}

func (failingSerializer) Serialize([]suncal.CalendarEvent) (suncal.CalendarDocument, error) {
	return suncal.CalendarDocument{}, suncal.ErrSerialization
}

type pipeline struct {
	gen      *generate.Generator
	resolver *spyResolver
	builder  *spyBuilder
}

func newPipeline(t *testing.T, ser generate.CalendarSerializer) pipeline {
	t.Helper()
	idx, err := tzindex.LoadFixtureFile("../tzindex/testdata/zones.yaml")
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
	}
	res := &spyResolver{inner: tzindex.NewResolver(idx)}
	bld := &spyBuilder{inner: schedule.NewBuilder(sun.NewCalculator(), slog.Default())}
	if ser == nil {
		ser = ics.NewSerializer()
	}
	return pipeline{
		gen:      generate.New(res, bld, ser, slog.Default()),
		resolver: res,
		builder:  bld,
	}
}

func request(c suncal.Coordinate, start, end suncal.Date, rise, set bool) suncal.Request {
	return suncal.Request{
		Coordinate: c,
		Range:      suncal.DateRange{Start: start, End: end},
		Spec: suncal.EventSpec{
			SunriseTitle:    "Sunrise",
			SunsetTitle:     "Sunset",
			DurationMinutes: 30,
			IncludeSunrise:  rise,
			IncludeSunset:   set,
		},
	}
}

func TestGenerateLondon(t *testing.T) {
	p := newPipeline(t, nil)
	req := request(suncal.Coordinate{Lat: 51.5074, Lon: -0.1278}, june20, june20, true, true)

	doc, err := p.gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	cal, err := goical.ParseCalendar(bytes.NewReader(doc.Body))
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	london, _ := time.LoadLocation("Europe/London")
	var starts []time.Time
	for i, ev := range events {
		start, err := ev.GetStartAt()
		if err != nil {
			t.Fatalf("event %d start: %v", i, err)
		}
		end, err := ev.GetEndAt()
		if err != nil {
			t.Fatalf("event %d end: %v", i, err)
		}
		if end.Sub(start) != 30*time.Minute {
			t.Errorf("event %d lasts %s, want 30m", i, end.Sub(start))
		}
		if got := suncal.DateOf(start.In(london)); got != june20 {
			t.Errorf("event %d on %s, want %s", i, got, june20)
		}
		starts = append(starts, start)
	}
	if !starts[0].Before(starts[1]) {
		t.Errorf("sunrise %s not before sunset %s", starts[0], starts[1])
	}
	if got := events[0].GetProperty(goical.ComponentPropertySummary).Value; got != "Sunrise" {
		t.Errorf("first title = %q, want Sunrise", got)
	}
}

func TestGenerateNothingSelected(t *testing.T) {
	p := newPipeline(t, nil)
	req := request(suncal.Coordinate{Lat: 51.5074, Lon: -0.1278}, june20, june20, false, false)

	_, err := p.gen.Generate(context.Background(), req)
	if !errors.Is(err, suncal.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if p.resolver.calls != 0 || p.builder.calls != 0 {
		t.Errorf("resolver called %d, builder called %d; want 0", p.resolver.calls, p.builder.calls)
	}
}

func TestGenerateOpenOcean(t *testing.T) {
	p := newPipeline(t, nil)
	req := request(suncal.Coordinate{Lat: 0, Lon: -30}, june20, june20.AddDays(10), true, true)

	_, err := p.gen.Generate(context.Background(), req)
	if !errors.Is(err, suncal.ErrZoneNotFound) {
		t.Fatalf("err = %v, want ErrZoneNotFound", err)
	}
	if p.resolver.calls != 1 {
		t.Errorf("resolver called %d times, want 1", p.resolver.calls)
	}
	if p.builder.calls != 0 {
		t.Errorf("builder called %d times, want 0", p.builder.calls)
	}
}

func TestGenerateMidnightSun(t *testing.T) {
	tromso := suncal.Coordinate{Lat: 69.6492, Lon: 18.9553}
	midsummer := suncal.Date{Year: 2024, Month: time.June, Day: 21}

	t.Run("sunset only yields nothing", func(t *testing.T) {
		p := newPipeline(t, nil)
		_, err := p.gen.Generate(context.Background(), request(tromso, midsummer, midsummer.AddDays(3), false, true))
		if !errors.Is(err, suncal.ErrNoEvents) {
			t.Errorf("err = %v, want ErrNoEvents", err)
		}
	})

	t.Run("range into autumn keeps later days", func(t *testing.T) {
		p := newPipeline(t, nil)
		end := suncal.Date{Year: 2024, Month: time.August, Day: 31}
		doc, err := p.gen.Generate(context.Background(), request(tromso, midsummer, end, true, true))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		cal, err := goical.ParseCalendar(bytes.NewReader(doc.Body))
		if err != nil {
			t.Fatalf("parsing: %v", err)
		}
		days := suncal.DateRange{Start: midsummer, End: end}.Days()
		if n := len(cal.Events()); n == 0 || n >= 2*days {
			t.Errorf("got %d events over %d days, want some but fewer than %d", n, days, 2*days)
		}
	})
}

func TestGenerateSerializerFailure(t *testing.T) {
	p := newPipeline(t, failingSerializer{})
	req := request(suncal.Coordinate{Lat: 51.5074, Lon: -0.1278}, june20, june20, true, false)

	_, err := p.gen.Generate(context.Background(), req)
	if !errors.Is(err, suncal.ErrSerialization) {
		t.Errorf("err = %v, want ErrSerialization", err)
	}
}
