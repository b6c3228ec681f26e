// File: internal/procstate/tracker.go

// Package procstate tracks process-scoped counters shared by the HTTP handlers.
// A Tracker is created once at process start, incremented per request and only
// read by the reporting endpoints.
package procstate

import (
	"fmt"
	"sync/atomic"
	"time"
)

type Tracker struct {
	startedAt time.Time
	requests  atomic.Uint64
	now       func() time.Time
}

type Snapshot struct {
	StartedAt time.Time
	Requests  uint64
	Uptime    time.Duration
}

func NewTracker() *Tracker {
	return newTrackerWithClock(time.Now)
}

func newTrackerWithClock(now func() time.Time) *Tracker {
	return &Tracker{
		startedAt: now(),
		now:       now,
	}
}

// Records one served request and returns the new total
func (t *Tracker) Inc() uint64 {
	return t.requests.Add(1)
}

func (t *Tracker) StartedAt() time.Time {
	return t.startedAt
}

func (t *Tracker) Uptime() time.Duration {
	return t.now().Sub(t.startedAt)
}

func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		StartedAt: t.startedAt,
		Requests:  t.requests.Load(),
		Uptime:    t.Uptime(),
	}
}

// Formats a duration as "3h 4m 5s", truncating to whole seconds
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
