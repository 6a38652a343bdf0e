package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorsInitialized(t *testing.T) {
	Init()
	Init()

	if HTTPRequests == nil || HTTPDuration == nil || PodLookupFailures == nil || AppInfo == nil {
		t.Fatal("collectors not initialized")
	}
}

func TestObserveRequest(t *testing.T) {
	Init()

	c := HTTPRequests.WithLabelValues("/health", "GET", "200")
	before := testutil.ToFloat64(c)
	ObserveRequest("/health", "GET", 200, 3*time.Millisecond)
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("counter delta = %v, want 1", got)
	}

	metric := &dto.Metric{}
	obs, ok := HTTPDuration.WithLabelValues("/health").(prometheus.Histogram)
	if !ok {
		t.Fatal("duration observer is not a histogram")
	}
	if err := obs.Write(metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	if metric.Histogram.GetSampleCount() == 0 {
		t.Error("duration not observed")
	}
}

func TestPodLookupFailures(t *testing.T) {
	Init()
	before := testutil.ToFloat64(PodLookupFailures)
	IncPodLookupFailures()
	if got := testutil.ToFloat64(PodLookupFailures) - before; got != 1 {
		t.Fatalf("delta = %v, want 1", got)
	}
}

func TestSetProcessInfoReplacesLabels(t *testing.T) {
	SetProcessInfo("1.0.0", "development", time.Now().Add(-time.Minute))
	SetProcessInfo("2.3.1", "staging", time.Now().Add(-time.Minute))

	if n := testutil.CollectAndCount(AppInfo); n != 1 {
		t.Fatalf("app_info series = %d, want 1", n)
	}
	if v := testutil.ToFloat64(AppInfo.WithLabelValues("2.3.1", "staging")); v != 1 {
		t.Fatalf("app_info{2.3.1,staging} = %v, want 1", v)
	}

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var uptime float64 = -1
	for _, mf := range families {
		if mf.GetName() == "app_uptime_seconds" {
			uptime = mf.GetMetric()[0].GetGauge().GetValue()
		}
	}
	if uptime < 60 {
		t.Fatalf("app_uptime_seconds = %v, want >= 60", uptime)
	}
}

func TestCorrelation(t *testing.T) {
	ctx := context.Background()
	if GetCorrelation(ctx) != "" {
		t.Fatal("expected empty correlation")
	}
	ctx = WithCorrelation(ctx, "abc-123")
	if got := GetCorrelation(ctx); got != "abc-123" {
		t.Fatalf("GetCorrelation = %q", got)
	}
	if LoggerWithCorr(ctx) == nil {
		t.Fatal("nil logger")
	}
}
