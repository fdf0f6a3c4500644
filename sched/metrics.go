package sched

import "sync/atomic"

// Metrics holds running counters for a ThreadPool's task lifecycle, enabled
// via WithMetrics. Every field is updated with a single atomic increment
// from the goroutine that makes the transition (the ScheduleTask caller,
// the Task.Cancel caller, or the worker), so Snapshot is cheap but
// the individual fields it returns are not mutually consistent at any
// single instant (the same tradeoff eventloop.Metrics makes).
type Metrics struct {
	scheduled   atomic.Uint64
	done        atomic.Uint64
	canceled    atomic.Uint64
	interrupted atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of Metrics' counters.
type MetricsSnapshot struct {
	Scheduled   uint64
	Done        uint64
	Canceled    uint64
	Interrupted uint64
}

// Snapshot copies the current counter values. A nil receiver (metrics
// disabled) returns the zero value.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	return MetricsSnapshot{
		Scheduled:   m.scheduled.Load(),
		Done:        m.done.Load(),
		Canceled:    m.canceled.Load(),
		Interrupted: m.interrupted.Load(),
	}
}

func (m *Metrics) recordScheduled() {
	if m != nil {
		m.scheduled.Add(1)
	}
}

func (m *Metrics) recordDone() {
	if m != nil {
		m.done.Add(1)
	}
}

func (m *Metrics) recordCanceled() {
	if m != nil {
		m.canceled.Add(1)
	}
}

func (m *Metrics) recordInterrupted() {
	if m != nil {
		m.interrupted.Add(1)
	}
}
