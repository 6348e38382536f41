package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	CandidatesCollected int64
	SourcesFailed       int64
	CandidatesRejected  int64
	SectionsGenerated   int64
	SectionsFailed      int64
	NewslettersRendered int64
	EmailsSent          int64
	EmailsFailed        int64

	// Timings
	LastRunDuration time.Duration

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddCandidatesCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesCollected += int64(n)
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) AddCandidatesRejected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesRejected += int64(n)
}

func (m *Metrics) IncrementSectionsGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SectionsGenerated++
}

func (m *Metrics) IncrementSectionsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SectionsFailed++
}

func (m *Metrics) IncrementNewslettersRendered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NewslettersRendered++
}

func (m *Metrics) AddEmailsSent(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsSent += int64(n)
}

func (m *Metrics) AddEmailsFailed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailsFailed += int64(n)
}

func (m *Metrics) RecordRunDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunDuration = duration
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"candidates_collected": m.CandidatesCollected,
		"sources_failed":       m.SourcesFailed,
		"candidates_rejected":  m.CandidatesRejected,
		"sections_generated":   m.SectionsGenerated,
		"sections_failed":      m.SectionsFailed,
		"newsletters_rendered": m.NewslettersRendered,
		"emails_sent":          m.EmailsSent,
		"emails_failed":        m.EmailsFailed,
		"last_run_duration_ms": m.LastRunDuration.Milliseconds(),
		"last_run_time":        m.LastRunTime.Format(time.RFC3339),
		"last_error_time":      m.LastErrorTime.Format(time.RFC3339),
		"last_error":           m.LastError,
		"is_healthy":           m.IsHealthy,
	}
}
