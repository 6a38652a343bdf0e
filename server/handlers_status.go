package server

import (
	"fmt"
	"net/http"

	"github.com/onnwee/self-healing-app/telemetry"
)

// Response bodies. Fields are declared in key order so the encoded JSON is sorted.

type podResponse struct {
	Hostname string `json:"hostname"`
	IP       string `json:"ip"`
	Uptime   string `json:"uptime"`
}

type statusResponse struct {
	Environment string      `json:"environment"`
	Message     string      `json:"message"`
	Pod         podResponse `json:"pod"`
	Timestamp   string      `json:"timestamp"`
	Version     string      `json:"version"`
}

type metricsResponse struct {
	Environment   string  `json:"environment"`
	UptimeSeconds seconds `json:"uptime_seconds"`
	Version       string  `json:"version"`
}

type crashResponse struct {
	Message string `json:"message"`
	Pod     string `json:"pod"`
}

// HandleStatus reports version, environment and the identity of the pod serving the request.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) error {
	id, err := h.resolver.Lookup(r.Context())
	if err != nil {
		telemetry.IncPodLookupFailures()
		return fmt.Errorf("pod identity: %w", err)
	}
	now := h.now()
	writeJSON(w, http.StatusOK, statusResponse{
		Environment: h.state.Environment,
		Message:     "Self-Healing Web App Status",
		Pod: podResponse{
			Hostname: id.Hostname,
			IP:       id.IP,
			Uptime:   h.state.Elapsed(now),
		},
		Timestamp: isoTimestamp(now),
		Version:   h.state.Version,
	})
	return nil
}

// HandleMetrics returns uptime and build information as JSON. The Prometheus
// exposition lives on the separate metrics listener.
func (h *Handlers) HandleMetrics(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, metricsResponse{
		Environment:   h.state.Environment,
		UptimeSeconds: seconds(h.state.Seconds(h.now())),
		Version:       h.state.Version,
	})
	return nil
}

// HandleCrash kills the process without writing a response. The client sees the
// connection drop with no status line; the orchestrator sees exit code 1.
func (h *Handlers) HandleCrash(_ http.ResponseWriter, r *http.Request) error {
	hostname, err := h.resolver.Hostname()
	if err != nil {
		telemetry.LoggerWithCorr(r.Context()).Warn("crash: hostname unavailable", "err", err)
	}
	h.fault.Crash(crashResponse{
		Message: "Initiating fatal crash to test Liveness Probe recovery...",
		Pod:     hostname,
	})
	return nil
}
