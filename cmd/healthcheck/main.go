// Command healthcheck probes the service's /health endpoint for container runtimes
// without a shell or curl (distroless images, Docker HEALTHCHECK, exec probes).
//
// Usage:
//
//	healthcheck [--url URL] [--timeout 3s]
//
// Exits 0 when the endpoint answers 2xx, 1 otherwise.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/pflag"
)

func main() {
	var (
		url     string
		timeout time.Duration
	)
	pflag.StringVar(&url, "url", defaultURL(), "health endpoint to probe")
	pflag.DurationVar(&timeout, "timeout", 3*time.Second, "request timeout")
	pflag.Parse()

	if err := probe(context.Background(), url, timeout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// defaultURL targets the local server on $PORT (default 5000).
func defaultURL() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	return "http://localhost:" + port + "/health"
}

func probe(ctx context.Context, url string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unhealthy: %s", resp.Status)
	}
	return nil
}
