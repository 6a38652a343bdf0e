package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/onnwee/self-healing-app/telemetry"
)

// HealthCheck is a named dependency check consulted by /health. The service has no
// dependencies, so the binary registers none.
type HealthCheck struct {
	Name string
	Fn   func(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime,omitempty"`
}

// HandleHealth answers liveness and readiness probes. It does no I/O of its own.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) error {
	for _, check := range h.healthChecks {
		if err := check.Fn(r.Context()); err != nil {
			telemetry.LoggerWithCorr(r.Context()).Warn("health check failed", slog.String("check", check.Name), slog.Any("err", err))
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unhealthy"})
			return nil
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "healthy",
		Uptime: h.state.Elapsed(h.now()),
	})
	return nil
}
