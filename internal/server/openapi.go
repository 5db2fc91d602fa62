package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ChecksResponse maps each dependency name to its status.
type ChecksResponse map[string]HealthResponse

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Solarkalender API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Generates iCalendar files with sunrise and sunset events for a location.")

	// POST /generate
	postGenerate, _ := r.NewOperationContext(http.MethodPost, "/generate")
	postGenerate.SetSummary("Generate calendar")
	postGenerate.SetDescription("Computes sunrise and sunset for every date in the range, in the local " +
		"time of the coordinate, and returns them as an .ics attachment. lat, lon and duration may be " +
		"sent as numbers or numeric strings.")
	postGenerate.AddReqStructure(GenerateRequest{})
	postGenerate.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/calendar"))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	postGenerate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
	_ = r.AddOperation(postGenerate)

	// GET /health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/health")
	getHealth.SetSummary("Liveness")
	getHealth.SetDescription("Always ok while the process serves requests.")
	getHealth.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getHealth)

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of each dependency, currently the timezone index.")
	getHealthz.AddRespStructure(ChecksResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(ChecksResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
