// Package generate runs the sun calendar pipeline for one request:
// resolve the timezone, build the events, serialize the calendar.
package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lukas-walker/solarkalender/internal/suncal"
)

type ZoneResolver interface {
	Resolve(c suncal.Coordinate) (string, error)
}

type EventBuilder interface {
	Build(ctx context.Context, c suncal.Coordinate, tzID string, r suncal.DateRange, spec suncal.EventSpec) ([]suncal.CalendarEvent, error)
}

type CalendarSerializer interface {
	Serialize(events []suncal.CalendarEvent) (suncal.CalendarDocument, error)
}

type Generator struct {
	resolver   ZoneResolver
	builder    EventBuilder
	serializer CalendarSerializer
	logger     *slog.Logger
}

func New(resolver ZoneResolver, builder EventBuilder, serializer CalendarSerializer, logger *slog.Logger) *Generator {
	return &Generator{
		resolver:   resolver,
		builder:    builder,
		serializer: serializer,
		logger:     logger,
	}
}

// Generate returns the calendar for req. Nothing is computed when req selects
// no events, and no date is visited when the timezone cannot be resolved.
func (g *Generator) Generate(ctx context.Context, req suncal.Request) (suncal.CalendarDocument, error) {
	if err := req.Spec.Validate(); err != nil {
		return suncal.CalendarDocument{}, err
	}

	tz, err := g.resolver.Resolve(req.Coordinate)
	if err != nil {
		return suncal.CalendarDocument{}, err
	}

	events, err := g.builder.Build(ctx, req.Coordinate, tz, req.Range, req.Spec)
	if err != nil {
		return suncal.CalendarDocument{}, fmt.Errorf("building events: %w", err)
	}
	if len(events) == 0 {
		return suncal.CalendarDocument{}, fmt.Errorf("%s to %s in %s: %w", req.Range.Start, req.Range.End, tz, suncal.ErrNoEvents)
	}

	doc, err := g.serializer.Serialize(events)
	if err != nil {
		return suncal.CalendarDocument{}, err
	}

	g.logger.Debug("calendar generated",
		"coordinate", req.Coordinate.String(),
		"timezone", tz,
		"days", req.Range.Days(),
		"events", len(events),
		"bytes", len(doc.Body),
	)
	return doc, nil
}
