// Command self-healing-app is a small HTTP service for exercising orchestrator
// lifecycle signals. It:
//   - Records its start time before anything else, then loads configuration and
//     initializes structured logging.
//   - Serves /, /health, /metrics and /crash on 0.0.0.0:$PORT.
//   - Optionally serves Prometheus metrics on METRICS_ADDR and exports traces
//     when OTEL_EXPORTER_OTLP_ENDPOINT is set.
//
// There is no signal handling: SIGTERM ends the process with the runtime's
// default behaviour, and GET /crash exits immediately with status 1.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/onnwee/self-healing-app/config"
	"github.com/onnwee/self-healing-app/faultinject"
	"github.com/onnwee/self-healing-app/podinfo"
	"github.com/onnwee/self-healing-app/server"
	"github.com/onnwee/self-healing-app/telemetry"
	"github.com/onnwee/self-healing-app/uptime"
)

func main() {
	startTime := time.Now()

	// Load .env file if present (local dev convenience only; pods rely on real env)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	setupLogger(cfg.LogLevel, cfg.LogFormat)

	state := uptime.New(startTime, cfg.Version, cfg.Environment)
	resolver := podinfo.NewOSResolver(cfg.ResolveTimeout)

	telemetry.Init()
	telemetry.SetProcessInfo(state.Version, state.Environment, state.StartTime)

	shutdownTracing, err := telemetry.InitTracing("self-healing-app", cfg.Version)
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}

	hostname, err := resolver.Hostname()
	if err != nil {
		slog.Warn("hostname unavailable", slog.Any("err", err))
	}
	slog.Info("starting microservice application",
		slog.String("version", cfg.Version),
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("hostname", hostname),
		slog.Bool("debug", cfg.Debug()),
		slog.Bool("tracing", telemetry.IsTracingEnabled()),
	)
	if strings.EqualFold(cfg.Environment, "production") {
		slog.Warn("GET /crash is reachable and terminates the process; do not expose it to untrusted clients")
	}

	handler := server.NewMux(server.Options{
		State:    state,
		Resolver: resolver,
		Fault:    faultinject.New(),
		Debug:    cfg.Debug(),
	})

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error { return server.Start(ctx, cfg.ListenAddr(), handler) })
	if cfg.MetricsAddr != "" {
		slog.Info("prometheus metrics enabled", slog.String("addr", cfg.MetricsAddr))
		g.Go(func() error { return server.Start(ctx, cfg.MetricsAddr, server.NewMetricsMux()) })
	}

	if err := g.Wait(); err != nil {
		slog.Error("http server exited with error", slog.Any("err", err))
		shutdownTracing()
		os.Exit(1)
	}
	shutdownTracing()
}

// setupLogger configures the default slog logger. level is debug|info|warn|error
// (default info); format is text|json (default text). Output goes to stdout.
func setupLogger(level, format string) {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", level))
	}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("logger initialized", slog.String("level", lvl.String()), slog.String("format", map[bool]string{true: "json", false: "text"}[format == "json"]))
}
