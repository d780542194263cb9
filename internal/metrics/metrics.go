// Package metrics counts native calls and times build stages for one report run.
package metrics

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics is a registry of named counters and timers.
type Metrics struct {
	mu       sync.RWMutex
	counters map[string]*int64
	timers   map[string]*Timer
}

// Timer tracks timing information for operations.
type Timer struct {
	mu    sync.RWMutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

// New creates an empty registry.
func New() *Metrics {
	return &Metrics{
		counters: make(map[string]*int64),
		timers:   make(map[string]*Timer),
	}
}

// Counter returns a counter by name, creating it if necessary.
func (m *Metrics) Counter(name string) *int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c, ok := m.counters[name]; ok {
		return c
	}

	c := new(int64)
	m.counters[name] = c
	return c
}

// Inc increments a counter by 1. A nil registry ignores the call.
func (m *Metrics) Inc(name string) {
	if m == nil {
		return
	}
	atomic.AddInt64(m.Counter(name), 1)
}

// GetCounter returns the current value of a counter.
func (m *Metrics) GetCounter(name string) int64 {
	m.mu.RLock()
	c, ok := m.counters[name]
	m.mu.RUnlock()

	if !ok {
		return 0
	}
	return atomic.LoadInt64(c)
}

// Timer returns a timer by name, creating it if necessary.
func (m *Metrics) Timer(name string) *Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[name]; ok {
		return t
	}

	t := &Timer{}
	m.timers[name] = t
	return t
}

// Record records a duration for a timer.
func (t *Timer) Record(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.count++
	t.total += d

	if t.count == 1 || d < t.min {
		t.min = d
	}
	if d > t.max {
		t.max = d
	}
}

// TimerStats contains statistics for a timer.
type TimerStats struct {
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

// Stats returns the current statistics for a timer.
func (t *Timer) Stats() TimerStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return TimerStats{
		Count: t.count,
		Total: t.total,
		Min:   t.min,
		Max:   t.max,
	}
}

// Snapshot contains a snapshot of all metrics.
type Snapshot struct {
	Counters map[string]int64      `json:"counters"`
	Timers   map[string]TimerStats `json:"timers"`
}

// Snapshot returns a snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		Counters: make(map[string]int64, len(m.counters)),
		Timers:   make(map[string]TimerStats, len(m.timers)),
	}

	for name, c := range m.counters {
		s.Counters[name] = atomic.LoadInt64(c)
	}
	for name, t := range m.timers {
		s.Timers[name] = t.Stats()
	}

	return s
}

// LogAttrs flattens the snapshot into slog attributes sorted by name, counters
// first, so debug logs stay stable between runs. Each timer is a group holding
// its count, total, min and max.
func (s Snapshot) LogAttrs() []any {
	attrs := make([]any, 0, len(s.Counters)+len(s.Timers))

	names := make([]string, 0, len(s.Counters))
	for name := range s.Counters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		attrs = append(attrs, slog.Int64(name, s.Counters[name]))
	}

	names = names[:0]
	for name := range s.Timers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ts := s.Timers[name]
		attrs = append(attrs, slog.Group(name,
			slog.Int64("count", ts.Count),
			slog.Duration("total", ts.Total),
			slog.Duration("min", ts.Min),
			slog.Duration("max", ts.Max),
		))
	}
	return attrs
}
