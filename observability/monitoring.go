// Package observability aggregates engine counters and process
// self-stats for the debug endpoint and the viewer CLI.
package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Counters are incremented by the engine as it mutates state. All
// fields are manipulated atomically.
type Counters struct {
	UsersRegistered  uint64 `json:"users_registered"`
	UsersRemoved     uint64 `json:"users_removed"`
	SessionsCreated  uint64 `json:"sessions_created"`
	SessionsDeleted  uint64 `json:"sessions_deleted"`
	RoundsCreated    uint64 `json:"rounds_created"`
	RoundsResolved   uint64 `json:"rounds_resolved"`
	AnswersSubmitted uint64 `json:"answers_submitted"`
	EventsPublished  uint64 `json:"events_published"`
}

// ProcessStats carries the latest sampled self-metrics.
type ProcessStats struct {
	PID        int     `json:"pid"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Status     string  `json:"status"`
	AllocMemMB uint64  `json:"alloc_mem_mb"`
	NumGC      uint32  `json:"num_gc"`
	SampledAt  string  `json:"sampled_at"`
}

// Report is the full monitoring snapshot served on /debug/stats.
type Report struct {
	Counters Counters     `json:"counters"`
	Process  ProcessStats `json:"process"`
}

type Manager struct {
	log      *slog.Logger
	counters Counters

	mu      sync.RWMutex
	process ProcessStats
}

func NewManager(log *slog.Logger) *Manager {
	return &Manager{log: log}
}

func (m *Manager) IncrUsersRegistered()  { atomic.AddUint64(&m.counters.UsersRegistered, 1) }
func (m *Manager) IncrUsersRemoved()     { atomic.AddUint64(&m.counters.UsersRemoved, 1) }
func (m *Manager) IncrSessionsCreated()  { atomic.AddUint64(&m.counters.SessionsCreated, 1) }
func (m *Manager) IncrSessionsDeleted()  { atomic.AddUint64(&m.counters.SessionsDeleted, 1) }
func (m *Manager) IncrRoundsCreated()    { atomic.AddUint64(&m.counters.RoundsCreated, 1) }
func (m *Manager) IncrRoundsResolved()   { atomic.AddUint64(&m.counters.RoundsResolved, 1) }
func (m *Manager) IncrAnswersSubmitted() { atomic.AddUint64(&m.counters.AnswersSubmitted, 1) }
func (m *Manager) IncrEventsPublished()  { atomic.AddUint64(&m.counters.EventsPublished, 1) }

// SetProcessStats stores the latest sample from the monitoring worker.
func (m *Manager) SetProcessStats(stats ProcessStats) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	stats.AllocMemMB = mem.Alloc / 1024 / 1024
	stats.NumGC = mem.NumGC
	stats.SampledAt = time.Now().UTC().Format(time.RFC3339)

	m.mu.Lock()
	m.process = stats
	m.mu.Unlock()
}

// Snapshot returns a consistent copy of the current report.
func (m *Manager) Snapshot() Report {
	m.mu.RLock()
	process := m.process
	m.mu.RUnlock()

	return Report{
		Process: process,
		Counters: Counters{
			UsersRegistered:  atomic.LoadUint64(&m.counters.UsersRegistered),
			UsersRemoved:     atomic.LoadUint64(&m.counters.UsersRemoved),
			SessionsCreated:  atomic.LoadUint64(&m.counters.SessionsCreated),
			SessionsDeleted:  atomic.LoadUint64(&m.counters.SessionsDeleted),
			RoundsCreated:    atomic.LoadUint64(&m.counters.RoundsCreated),
			RoundsResolved:   atomic.LoadUint64(&m.counters.RoundsResolved),
			AnswersSubmitted: atomic.LoadUint64(&m.counters.AnswersSubmitted),
			EventsPublished:  atomic.LoadUint64(&m.counters.EventsPublished),
		},
	}
}
