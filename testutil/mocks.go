// Package testutil holds test doubles shared across package tests.
package testutil

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/onnwee/self-healing-app/faultinject"
	"github.com/onnwee/self-healing-app/podinfo"
)

// MockResolver is a podinfo.Resolver returning fixed values.
type MockResolver struct {
	Identity    podinfo.Identity
	LookupErr   error
	HostnameErr error

	Lookups atomic.Int64
}

// NewMockResolver returns a resolver that always succeeds with hostname and ip.
func NewMockResolver(hostname, ip string) *MockResolver {
	return &MockResolver{Identity: podinfo.Identity{Hostname: hostname, IP: ip}}
}

func (m *MockResolver) Hostname() (string, error) {
	if m.HostnameErr != nil {
		return "", m.HostnameErr
	}
	return m.Identity.Hostname, nil
}

func (m *MockResolver) Lookup(ctx context.Context) (podinfo.Identity, error) {
	m.Lookups.Add(1)
	if err := ctx.Err(); err != nil {
		return podinfo.Identity{}, err
	}
	if m.LookupErr != nil {
		return podinfo.Identity{}, m.LookupErr
	}
	return m.Identity, nil
}

// CrashRecorder captures injected crashes instead of exiting.
type CrashRecorder struct {
	mu      sync.Mutex
	codes   []int
	pending []any
}

// Injector returns a faultinject.Injector wired to the recorder.
func (c *CrashRecorder) Injector() *faultinject.Injector {
	return faultinject.NewWithExit(func(code int, pending any) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.codes = append(c.codes, code)
		c.pending = append(c.pending, pending)
	})
}

// Codes returns the exit codes requested so far.
func (c *CrashRecorder) Codes() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.codes...)
}

// Pending returns the discarded responses, one per crash.
func (c *CrashRecorder) Pending() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]any(nil), c.pending...)
}
