// Package faultinject terminates the process on purpose so an orchestrator's restart
// policy can be exercised. Termination goes straight to the exit syscall: deferred
// functions, runtime exit hooks and pending HTTP responses are all skipped, which is
// what an unrecoverable fault (segfault, OOM kill) looks like from the outside.
package faultinject

import (
	"log/slog"
	"syscall"
)

// ExitCode is the status the process exits with when a crash is injected.
const ExitCode = 1

// Injector performs the crash. It is safe for concurrent use.
type Injector struct {
	exit func(code int, pending any)
}

// New returns an Injector that really terminates the process.
func New() *Injector {
	return &Injector{exit: func(code int, _ any) { syscall.Exit(code) }}
}

// NewWithExit returns an Injector that calls exit instead of terminating. Tests use
// it to observe a crash, and the discarded response, without dying.
func NewWithExit(exit func(code int, pending any)) *Injector {
	return &Injector{exit: exit}
}

// Crash terminates the process with ExitCode. pending is the response that would have
// been sent; it is discarded, never written. With a real Injector Crash does not return.
func (i *Injector) Crash(pending any) {
	slog.Warn("fault injection: terminating process", slog.Int("exit_code", ExitCode), slog.Any("pending", pending))
	i.exit(ExitCode, pending)
}
