// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	HTTPRequests      *prometheus.CounterVec
	PodLookupFailures prometheus.Counter

	// Histograms (seconds)
	HTTPDuration *prometheus.HistogramVec

	// Gauges
	AppInfo *prometheus.GaugeVec

	startTime atomic.Pointer[time.Time]
	infoMu    sync.Mutex
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{Name: "app_http_requests_total", Help: "HTTP requests served, by route, method and status code"}, []string{"route", "method", "code"})
		PodLookupFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "app_pod_lookup_failures_total", Help: "Hostname or pod IP resolutions that failed"})
		HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{Name: "app_http_request_duration_seconds", Help: "HTTP request duration seconds", Buckets: prometheus.DefBuckets}, []string{"route"})
		AppInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{Name: "app_info", Help: "Static build and environment information, always 1"}, []string{"version", "environment"})
		promauto.NewGaugeFunc(prometheus.GaugeOpts{Name: "app_uptime_seconds", Help: "Seconds since the process started"}, func() float64 {
			if t := startTime.Load(); t != nil {
				return time.Since(*t).Seconds()
			}
			return 0
		})
	})
}

// SetProcessInfo publishes the process start time and the app_info labels.
// Calling it again replaces the previous labels.
func SetProcessInfo(version, environment string, start time.Time) {
	Init()
	startTime.Store(&start)
	infoMu.Lock()
	defer infoMu.Unlock()
	AppInfo.Reset()
	AppInfo.WithLabelValues(version, environment).Set(1)
}

// ObserveRequest records one served request.
func ObserveRequest(route, method string, code int, d time.Duration) {
	if HTTPRequests != nil {
		HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	}
	if HTTPDuration != nil {
		HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
	}
}

// IncPodLookupFailures counts a failed pod identity lookup.
func IncPodLookupFailures() {
	if PodLookupFailures != nil {
		PodLookupFailures.Inc()
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
