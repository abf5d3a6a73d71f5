package http

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"news-digest/internal/handler/http/respond"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "degraded"
	Timestamp string                 `json:"timestamp"` // RFC 3339
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// BreakerState is the read-only view of a circuit breaker the health check needs.
type BreakerState interface {
	Name() string
	State() gobreaker.State
}

// HealthHandler reports liveness and the completion API circuit breaker state.
// The process is alive whenever it answers, so the response is always 200;
// an open breaker only downgrades the status to "degraded".
type HealthHandler struct {
	Breaker BreakerState
	Model   string
	Version string

	// Now defaults to time.Now.
	Now func() time.Time
}

// ServeHTTP writes the health report.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	status := "healthy"
	checks := make(map[string]CheckStatus)

	if h.Breaker != nil {
		state := h.Breaker.State()
		check := CheckStatus{
			Status: "healthy",
			Details: map[string]any{
				"circuit": h.Breaker.Name(),
				"state":   state.String(),
				"model":   h.Model,
			},
		}
		if state != gobreaker.StateClosed {
			check.Status = "degraded"
			check.Message = "completion api circuit breaker is " + state.String()
			status = "degraded"
		}
		checks["completion_api"] = check
	}

	respond.JSON(w, http.StatusOK, HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}
