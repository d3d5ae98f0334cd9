package server

import (
	"sync"
	"time"
)

// Metrics counts API activity for the health endpoint
type Metrics struct {
	mu           sync.RWMutex
	runsStarted  int64
	decisions    int64
	errorCount   int64
	lastActivity string
	startTime    time.Time
}

// MetricsSnapshot is a point-in-time copy of Metrics
type MetricsSnapshot struct {
	RunsStarted   int64   `json:"runs_started"`
	Decisions     int64   `json:"decisions"`
	ErrorCount    int64   `json:"error_count"`
	LastActivity  string  `json:"last_activity,omitempty"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics instance
func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RunStarted records a started run
func (m *Metrics) RunStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runsStarted++
	m.lastActivity = time.Now().Format(time.RFC3339)
}

// Decision records a gate decision
func (m *Metrics) Decision() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decisions++
	m.lastActivity = time.Now().Format(time.RFC3339)
}

// Error records a failed request
func (m *Metrics) Error() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount++
}

// Snapshot returns the current counters
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return MetricsSnapshot{
		RunsStarted:   m.runsStarted,
		Decisions:     m.decisions,
		ErrorCount:    m.errorCount,
		LastActivity:  m.lastActivity,
		UptimeSeconds: time.Since(m.startTime).Seconds(),
	}
}
