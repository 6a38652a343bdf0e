// Package uptime holds the process state captured at startup and formats the elapsed
// time since then. State is immutable once constructed and safe for concurrent reads.
package uptime

import (
	"fmt"
	"time"
)

// State is the process-wide snapshot handed to the HTTP layer.
type State struct {
	StartTime   time.Time
	Version     string
	Environment string
}

// New captures start as the process start time. Pass a time.Now() reading so that
// elapsed durations use the monotonic clock.
func New(start time.Time, version, environment string) *State {
	return &State{StartTime: start, Version: version, Environment: environment}
}

// Uptime returns the elapsed time since StartTime, never negative.
func (s *State) Uptime(now time.Time) time.Duration {
	d := now.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// Seconds returns Uptime in fractional seconds with microsecond resolution.
func (s *State) Seconds(now time.Time) float64 {
	return float64(s.Uptime(now).Microseconds()) / 1e6
}

// Elapsed formats the uptime at now. See Format.
func (s *State) Elapsed(now time.Time) string {
	return Format(s.Uptime(now))
}

// Format renders d as "H:MM:SS", or "D day, H:MM:SS" / "D days, H:MM:SS" once it
// reaches a full day. Sub-second precision is truncated, negative input renders as zero.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	rem := total % 86400
	hms := fmt.Sprintf("%d:%02d:%02d", rem/3600, rem%3600/60, rem%60)
	switch days {
	case 0:
		return hms
	case 1:
		return "1 day, " + hms
	default:
		return fmt.Sprintf("%d days, %s", days, hms)
	}
}
