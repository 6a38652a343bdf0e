// Package server exposes the HTTP API handlers.
package server

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/onnwee/self-healing-app/faultinject"
	"github.com/onnwee/self-healing-app/podinfo"
	"github.com/onnwee/self-healing-app/telemetry"
	"github.com/onnwee/self-healing-app/uptime"
)

// Handlers holds dependencies for all HTTP handlers. It is read-only after construction.
type Handlers struct {
	state        *uptime.State
	resolver     podinfo.Resolver
	fault        *faultinject.Injector
	healthChecks []HealthCheck
	debug        bool
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance with the given dependencies.
func NewHandlers(opts Options) *Handlers {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Handlers{
		state:        opts.State,
		resolver:     opts.Resolver,
		fault:        opts.Fault,
		healthChecks: opts.HealthChecks,
		debug:        opts.Debug,
		now:          now,
	}
}

// handlerFunc is a route handler that reports failure instead of writing an error response itself.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// wrap maps a returned error to the 500 contract.
func (h *Handlers) wrap(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.logFault(r, err, nil)
			writeInternalError(w)
		}
	})
}

// logFault records a request fault server-side. Callers answer with writeInternalError,
// which carries no detail.
func (h *Handlers) logFault(r *http.Request, err error, stack []byte) {
	attrs := []any{slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.Any("err", err)}
	if h.debug {
		if stack == nil {
			stack = debug.Stack()
		}
		attrs = append(attrs, slog.String("stack", string(stack)))
	}
	telemetry.LoggerWithCorr(r.Context()).Error("unhandled request error", attrs...)
	telemetry.RecordError(trace.SpanFromContext(r.Context()), err)
}
