// Package server exposes the HTTP API: status, health, metrics and the crash
// endpoint used to exercise orchestrator restarts. Every response body is JSON,
// including the 404/405/500 error contracts. Requests carry correlation IDs for
// consistent logging and, when enabled, an OpenTelemetry span.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/onnwee/self-healing-app/faultinject"
	"github.com/onnwee/self-healing-app/podinfo"
	"github.com/onnwee/self-healing-app/telemetry"
	"github.com/onnwee/self-healing-app/uptime"
)

// Options carries the dependencies of the API. State, Resolver and Fault are required.
type Options struct {
	State    *uptime.State
	Resolver podinfo.Resolver
	Fault    *faultinject.Injector

	// HealthChecks run on every /health call. Keep them fast; probes poll often.
	HealthChecks []HealthCheck

	// Debug adds stack traces to internal error logs.
	Debug bool

	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

// NewMux returns the HTTP handler with all routes and middleware.
func NewMux(opts Options) http.Handler {
	telemetry.Init()
	h := NewHandlers(opts)

	mux := http.NewServeMux()
	mux.Handle("/{$}", allowGet(h.wrap(h.HandleStatus)))
	mux.Handle("/health", allowGet(h.wrap(h.HandleHealth)))
	mux.Handle("/metrics", allowGet(h.wrap(h.HandleMetrics)))
	mux.Handle("/crash", allowGet(h.wrap(h.HandleCrash)))
	mux.HandleFunc("/", handleNotFound)

	recovered := h.recoverer(mux)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corr := r.Header.Get("X-Correlation-ID")
		if corr == "" {
			corr = uuid.New().String()
		}
		ctx := telemetry.WithCorrelation(r.Context(), corr)
		w.Header().Set("X-Correlation-ID", corr)

		_, pattern := mux.Handler(r)
		route := routeLabel(pattern)

		ctx, span := telemetry.StartSpan(ctx, "http-server", r.Method+" "+route,
			telemetry.HTTPMethodAttr(r.Method),
			telemetry.HTTPRouteAttr(route),
			telemetry.HTTPURLAttr(r.URL.String()),
		)
		defer span.End()

		telemetry.LoggerWithCorr(ctx).Debug("request start", slog.String("method", r.Method), slog.String("path", r.URL.Path), slog.String("component", "http"))

		start := time.Now()
		wrappedWriter := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		recovered.ServeHTTP(wrappedWriter, r.WithContext(ctx))

		telemetry.SetSpanHTTPStatus(span, wrappedWriter.statusCode)
		telemetry.ObserveRequest(route, r.Method, wrappedWriter.statusCode, time.Since(start))
	})
}

// routeLabel keeps metric and span names bounded: unknown paths collapse into one label.
func routeLabel(pattern string) string {
	switch pattern {
	case "/{$}":
		return "/"
	case "/", "":
		return "unmatched"
	default:
		return pattern
	}
}

// NewMetricsMux serves the Prometheus exposition format for scrapers on a separate listener.
func NewMetricsMux() http.Handler {
	telemetry.Init()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// statusRecorder wraps ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.statusCode = statusCode
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Flush implements http.Flusher if the underlying ResponseWriter supports it
func (r *statusRecorder) Flush() {
	if flusher, ok := r.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Start listens on addr and serves handler until ctx is cancelled.
func Start(ctx context.Context, addr string, handler http.Handler) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, ln, handler)
}

// Serve accepts connections on ln. Cancelling ctx closes the listener and all open
// connections at once; in-flight requests are not drained.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		if err := srv.Close(); err != nil {
			slog.Error("http server close error", slog.Any("err", err))
		}
	})
	defer stop()

	slog.Info("http server listening", slog.String("addr", ln.Addr().String()))
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server error", slog.Any("err", err))
		return err
	}
	return nil
}
