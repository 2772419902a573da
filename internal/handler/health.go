package handler

import (
	"context"
	"net/http"
)

// ReadyChecker reports whether a dependency is reachable.
type ReadyChecker interface {
	Ready(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	checks map[string]ReadyChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(checks map[string]ReadyChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	for name, check := range h.checks {
		if err := check.Ready(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": name + ": " + err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
