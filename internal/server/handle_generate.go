package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"unicode"

	"github.com/lukas-walker/solarkalender/internal/suncal"
)

// Generator turns a validated request into a calendar file.
type Generator interface {
	Generate(ctx context.Context, req suncal.Request) (suncal.CalendarDocument, error)
}

const (
	maxTitleBytes      = 255
	maxDurationMinutes = 24 * 60
	maxBodyBytes       = 64 << 10

	defaultSunriseTitle = "Sunrise"
	defaultSunsetTitle  = "Sunset"
)

// GenerateRequest is the form posted by the web UI. Numeric fields accept
// JSON numbers as well as numeric strings.
type GenerateRequest struct {
	Lat            json.Number `json:"lat"`
	Lon            json.Number `json:"lon"`
	StartDate      string      `json:"start_date"`
	EndDate        string      `json:"end_date"`
	Duration       json.Number `json:"duration"`
	IncludeSunrise bool        `json:"include_sunrise"`
	IncludeSunset  bool        `json:"include_sunset"`
	SunriseTitle   string      `json:"sunrise_title"`
	SunsetTitle    string      `json:"sunset_title"`
}

// toRequest validates g and converts it to a domain request. Every error
// wraps suncal.ErrInvalidRequest.
func (g GenerateRequest) toRequest(maxDays int) (suncal.Request, error) {
	lat, err := parseNumber("lat", g.Lat)
	if err != nil {
		return suncal.Request{}, err
	}
	lon, err := parseNumber("lon", g.Lon)
	if err != nil {
		return suncal.Request{}, err
	}
	coord := suncal.Coordinate{Lat: lat, Lon: lon}
	if err := coord.Validate(); err != nil {
		return suncal.Request{}, err
	}

	if strings.TrimSpace(g.StartDate) == "" || strings.TrimSpace(g.EndDate) == "" {
		return suncal.Request{}, fmt.Errorf("%w: start_date and end_date are required", suncal.ErrInvalidRequest)
	}
	start, err := suncal.ParseDate(g.StartDate)
	if err != nil {
		return suncal.Request{}, err
	}
	end, err := suncal.ParseDate(g.EndDate)
	if err != nil {
		return suncal.Request{}, err
	}
	rng := suncal.DateRange{Start: start, End: end}
	if end.Before(start) {
		return suncal.Request{}, fmt.Errorf("%w: start_date %s is after end_date %s", suncal.ErrInvalidRequest, start, end)
	}
	if days := rng.Days(); days > maxDays {
		return suncal.Request{}, fmt.Errorf("%w: range covers %d days, at most %d allowed", suncal.ErrInvalidRequest, days, maxDays)
	}

	minutes, err := parseNumber("duration", g.Duration)
	if err != nil {
		return suncal.Request{}, err
	}
	if minutes != math.Trunc(minutes) || minutes < 0 || minutes > maxDurationMinutes {
		return suncal.Request{}, fmt.Errorf("%w: duration must be a whole number of minutes between 0 and %d", suncal.ErrInvalidRequest, maxDurationMinutes)
	}

	sunriseTitle, err := cleanTitle("sunrise_title", g.SunriseTitle, defaultSunriseTitle)
	if err != nil {
		return suncal.Request{}, err
	}
	sunsetTitle, err := cleanTitle("sunset_title", g.SunsetTitle, defaultSunsetTitle)
	if err != nil {
		return suncal.Request{}, err
	}

	spec := suncal.EventSpec{
		SunriseTitle:    sunriseTitle,
		SunsetTitle:     sunsetTitle,
		DurationMinutes: int(minutes),
		IncludeSunrise:  g.IncludeSunrise,
		IncludeSunset:   g.IncludeSunset,
	}
	if len(spec.SunriseTitle) > maxTitleBytes || len(spec.SunsetTitle) > maxTitleBytes {
		return suncal.Request{}, fmt.Errorf("%w: titles must be at most %d bytes", suncal.ErrInvalidRequest, maxTitleBytes)
	}
	if err := spec.Validate(); err != nil {
		return suncal.Request{}, err
	}

	return suncal.Request{Coordinate: coord, Range: rng, Spec: spec}, nil
}

func parseNumber(field string, n json.Number) (float64, error) {
	if n == "" {
		return 0, fmt.Errorf("%w: %s is required", suncal.ErrInvalidRequest, field)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", suncal.ErrInvalidRequest, field)
	}
	return f, nil
}

// newlines maps CRLF and lone CR, as sent by browser text areas, to LF.
var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// cleanTitle trims title and falls back when it is empty. Line breaks become
// LF and tabs are kept; any other control character is rejected.
func cleanTitle(field, title, fallback string) (string, error) {
	t := strings.TrimSpace(newlines.Replace(title))
	if t == "" {
		return fallback, nil
	}
	for _, r := range t {
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %s contains control character %U", suncal.ErrInvalidRequest, field, r)
		}
	}
	return t, nil
}

func handleGenerate(logger *slog.Logger, gen Generator, maxDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		var body GenerateRequest
		if err := readJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req, err := body.toRequest(maxDays)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		doc, err := gen.Generate(r.Context(), req)
		switch {
		case err == nil:
		case errors.Is(err, suncal.ErrInvalidRequest), errors.Is(err, suncal.ErrZoneNotFound):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case errors.Is(err, suncal.ErrNoEvents):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		default:
			logger.Error("generating calendar", "coordinate", req.Coordinate.String(), "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+doc.Filename)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc.Body)
	}
}
