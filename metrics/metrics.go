package metrics

import (
	"sync"
	"time"
)

// Alert statuses recorded by IncAlerts
const (
	AlertStatusSent   = "sent"
	AlertStatusFailed = "failed"
)

// MetricsCollector defines the interface for collecting countdown metrics
type MetricsCollector interface {
	// Gauges - current state
	SetSessionsRunning(count int)

	// Counters - event tracking
	IncSessionsStarted()
	IncTicks()
	IncSessionsFinished()
	IncSessionsCanceled()
	IncAlerts(status string)
	IncRemindersSkipped(reminderName string)

	// Histograms - duration tracking
	ObserveSessionDuration(duration time.Duration)

	// Query methods for testing and monitoring
	GetSessionsRunning() int
	GetSessionsStarted() int64
	GetTicks() int64
	GetSessionsFinished() int64
	GetSessionsCanceled() int64
	GetAlerts(status string) int64
	GetRemindersSkipped(reminderName string) int64
}

// NoOpMetrics is a metrics collector that does nothing
type NoOpMetrics struct{}

func NewNoOpMetrics() *NoOpMetrics {
	return &NoOpMetrics{}
}

func (m *NoOpMetrics) SetSessionsRunning(count int)                  {}
func (m *NoOpMetrics) IncSessionsStarted()                           {}
func (m *NoOpMetrics) IncTicks()                                     {}
func (m *NoOpMetrics) IncSessionsFinished()                          {}
func (m *NoOpMetrics) IncSessionsCanceled()                          {}
func (m *NoOpMetrics) IncAlerts(status string)                       {}
func (m *NoOpMetrics) IncRemindersSkipped(reminderName string)       {}
func (m *NoOpMetrics) ObserveSessionDuration(duration time.Duration) {}
func (m *NoOpMetrics) GetSessionsRunning() int                       { return 0 }
func (m *NoOpMetrics) GetSessionsStarted() int64                     { return 0 }
func (m *NoOpMetrics) GetTicks() int64                               { return 0 }
func (m *NoOpMetrics) GetSessionsFinished() int64                    { return 0 }
func (m *NoOpMetrics) GetSessionsCanceled() int64                    { return 0 }
func (m *NoOpMetrics) GetAlerts(status string) int64                 { return 0 }
func (m *NoOpMetrics) GetRemindersSkipped(reminderName string) int64 { return 0 }

// InMemoryMetrics is a simple in-memory metrics collector for testing and basic monitoring
type InMemoryMetrics struct {
	mu sync.RWMutex

	// Gauges
	sessionsRunning int

	// Counters
	sessionsStarted  int64
	ticks            int64
	sessionsFinished int64
	sessionsCanceled int64
	alerts           map[string]int64 // key: status
	remindersSkipped map[string]int64 // key: reminder name

	// Histograms - storing observations
	sessionDurations []time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		alerts:           make(map[string]int64),
		remindersSkipped: make(map[string]int64),
	}
}

// Gauges
func (m *InMemoryMetrics) SetSessionsRunning(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsRunning = count
}

func (m *InMemoryMetrics) GetSessionsRunning() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionsRunning
}

// Counters
func (m *InMemoryMetrics) IncSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsStarted++
}

func (m *InMemoryMetrics) IncTicks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks++
}

func (m *InMemoryMetrics) IncSessionsFinished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsFinished++
}

func (m *InMemoryMetrics) IncSessionsCanceled() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsCanceled++
}

func (m *InMemoryMetrics) IncAlerts(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts[status]++
}

func (m *InMemoryMetrics) IncRemindersSkipped(reminderName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remindersSkipped[reminderName]++
}

func (m *InMemoryMetrics) GetSessionsStarted() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionsStarted
}

func (m *InMemoryMetrics) GetTicks() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ticks
}

func (m *InMemoryMetrics) GetSessionsFinished() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionsFinished
}

func (m *InMemoryMetrics) GetSessionsCanceled() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionsCanceled
}

func (m *InMemoryMetrics) GetAlerts(status string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.alerts[status]
}

func (m *InMemoryMetrics) GetRemindersSkipped(reminderName string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.remindersSkipped[reminderName]
}

// Histograms
func (m *InMemoryMetrics) ObserveSessionDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionDurations = append(m.sessionDurations, duration)
}

// GetSessionDurations returns a copy of every observed session duration
func (m *InMemoryMetrics) GetSessionDurations() []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]time.Duration, len(m.sessionDurations))
	copy(result, m.sessionDurations)
	return result
}

// Reset clears all metrics (useful for testing)
func (m *InMemoryMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionsRunning = 0
	m.sessionsStarted = 0
	m.ticks = 0
	m.sessionsFinished = 0
	m.sessionsCanceled = 0
	m.alerts = make(map[string]int64)
	m.remindersSkipped = make(map[string]int64)
	m.sessionDurations = nil
}
