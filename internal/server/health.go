package server

import (
	"net/http"
)

// HealthResponse is the liveness body. Dependency checks live under /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
