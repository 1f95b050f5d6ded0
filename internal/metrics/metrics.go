// Package metrics holds process-wide counters. A single instance is
// created in main and injected into the components that emit telemetry.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	ProviderCalls      int64
	ProviderFailures   int64
	ProviderLatencyMs  int64 // cumulative, for averaging
	QuestionsGenerated int64
	AnswersEvaluated   int64
	ValidationFailures int64
	SessionsStarted    int64
	SessionsCompleted  int64
	SessionsAbandoned  int64
	LastUpdate         time.Time
}

func New() *Metrics {
	return &Metrics{LastUpdate: time.Now()}
}

// RecordProviderCall tracks one provider round trip.
func (m *Metrics) RecordProviderCall(latency time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProviderCalls++
	m.ProviderLatencyMs += latency.Milliseconds()
	if !success {
		m.ProviderFailures++
	}
	m.LastUpdate = time.Now()
}

func (m *Metrics) AddQuestionsGenerated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuestionsGenerated += int64(n)
	m.LastUpdate = time.Now()
}

func (m *Metrics) IncrementAnswersEvaluated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersEvaluated++
	m.LastUpdate = time.Now()
}

func (m *Metrics) IncrementValidationFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationFailures++
	m.LastUpdate = time.Now()
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsStarted++
	m.LastUpdate = time.Now()
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsCompleted++
	m.LastUpdate = time.Now()
}

func (m *Metrics) IncrementSessionsAbandoned() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionsAbandoned++
	m.LastUpdate = time.Now()
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	ProviderCalls      int64
	ProviderFailures   int64
	ProviderLatencyMs  int64
	QuestionsGenerated int64
	AnswersEvaluated   int64
	ValidationFailures int64
	SessionsStarted    int64
	SessionsCompleted  int64
	SessionsAbandoned  int64
	LastUpdate         time.Time
}

// Snapshot returns a consistent copy for reporting.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Snapshot{
		ProviderCalls:      m.ProviderCalls,
		ProviderFailures:   m.ProviderFailures,
		ProviderLatencyMs:  m.ProviderLatencyMs,
		QuestionsGenerated: m.QuestionsGenerated,
		AnswersEvaluated:   m.AnswersEvaluated,
		ValidationFailures: m.ValidationFailures,
		SessionsStarted:    m.SessionsStarted,
		SessionsCompleted:  m.SessionsCompleted,
		SessionsAbandoned:  m.SessionsAbandoned,
		LastUpdate:         m.LastUpdate,
	}
}
