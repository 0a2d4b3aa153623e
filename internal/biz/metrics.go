package biz

import (
	"sync"
	"time"

	"CourtGate/internal/model"
)

// HistoryLimit bounds the in-memory request history.
const HistoryLimit = 100

type systemCounter struct {
	total   int64
	success int64
}

// PerformanceMetrics is a process-wide aggregate of orchestrator outcomes:
// totals, a running average response time (incremental mean) and
// per-system availability counters. All values are monotonically appended;
// nothing is ever rolled back.
type PerformanceMetrics struct {
	mu sync.Mutex

	totalRequests      int64
	successfulRequests int64
	fallbackUsed       int64
	avgResponseTimeMS  float64

	systems map[string]*systemCounter
	history []model.RequestSummary
}

// MetricsReport is a point-in-time snapshot of the aggregate.
type MetricsReport struct {
	TotalRequests      int64              `json:"total_requests"`
	SuccessfulRequests int64              `json:"successful_requests"`
	SuccessRate        float64            `json:"success_rate"`
	FallbackUsed       int64              `json:"fallback_used"`
	FallbackRate       float64            `json:"fallback_rate"`
	AvgResponseTimeMS  float64            `json:"avg_response_time_ms"`
	SystemAvailability map[string]float64 `json:"system_availability"`
}

// NewPerformanceMetrics creates an empty metrics aggregate.
func NewPerformanceMetrics() *PerformanceMetrics {
	return &PerformanceMetrics{
		systems: make(map[string]*systemCounter),
	}
}

// Record folds one completed response into the aggregate and appends it to
// the bounded history.
func (m *PerformanceMetrics) Record(resp *model.CourtAPIResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++
	if resp.Success {
		m.successfulRequests++
	}
	if resp.FallbackUsed {
		m.fallbackUsed++
	}

	// Incremental mean: avg += (x - avg) / n.
	m.avgResponseTimeMS += (float64(resp.ResponseTimeMS) - m.avgResponseTimeMS) / float64(m.totalRequests)

	key := string(resp.CourtSystem) + ":" + resp.Jurisdiction
	counter, ok := m.systems[key]
	if !ok {
		counter = &systemCounter{}
		m.systems[key] = counter
	}
	counter.total++
	if resp.Success {
		counter.success++
	}

	m.history = append(m.history, model.RequestSummary{
		Timestamp:      time.Now(),
		CourtSystem:    resp.CourtSystem,
		Jurisdiction:   resp.Jurisdiction,
		DataSource:     resp.DataSource,
		Success:        resp.Success,
		FallbackUsed:   resp.FallbackUsed,
		ResponseTimeMS: resp.ResponseTimeMS,
		Confidence:     resp.ConfidenceScore,
		ErrorCount:     len(resp.Errors),
	})
	if len(m.history) > HistoryLimit {
		m.history = m.history[len(m.history)-HistoryLimit:]
	}
}

// Report computes the current snapshot.
func (m *PerformanceMetrics) Report() MetricsReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	report := MetricsReport{
		TotalRequests:      m.totalRequests,
		SuccessfulRequests: m.successfulRequests,
		FallbackUsed:       m.fallbackUsed,
		AvgResponseTimeMS:  m.avgResponseTimeMS,
		SystemAvailability: make(map[string]float64, len(m.systems)),
	}
	if m.totalRequests > 0 {
		report.SuccessRate = float64(m.successfulRequests) / float64(m.totalRequests)
		report.FallbackRate = float64(m.fallbackUsed) / float64(m.totalRequests)
	}
	for key, counter := range m.systems {
		if counter.total > 0 {
			report.SystemAvailability[key] = 100 * float64(counter.success) / float64(counter.total)
		}
	}
	return report
}

// Recent returns up to n of the most recent request summaries, newest last.
func (m *PerformanceMetrics) Recent(n int) []model.RequestSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n <= 0 || n > len(m.history) {
		n = len(m.history)
	}
	out := make([]model.RequestSummary, n)
	copy(out, m.history[len(m.history)-n:])
	return out
}
