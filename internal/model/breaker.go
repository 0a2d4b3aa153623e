package model

import "time"

// BreakerState is a point-in-time snapshot of one circuit breaker entry.
type BreakerState struct {
	Service      string        `json:"service"`
	Failures     int           `json:"failures"`
	IsOpen       bool          `json:"is_open"`
	Threshold    int           `json:"threshold"`
	ResetTimeout time.Duration `json:"reset_timeout"`
	ResetTime    time.Time     `json:"reset_time,omitempty"`
}

// CircuitOpenedEvent is emitted when a breaker trips open.
type CircuitOpenedEvent struct {
	Service   string    `json:"service"`
	Failures  int       `json:"failures"`
	OpenedAt  time.Time `json:"opened_at"`
	ResetTime time.Time `json:"reset_time"`
}

// CircuitRecoveredEvent is emitted when an open breaker passes its reset
// time and closes again.
type CircuitRecoveredEvent struct {
	Service     string        `json:"service"`
	RecoveredAt time.Time     `json:"recovered_at"`
	OpenFor     time.Duration `json:"open_for"`
}

// RequestSummary is the compact per-request record kept in the bounded
// history and persisted to the request audit log.
type RequestSummary struct {
	Timestamp      time.Time   `json:"timestamp"`
	CourtSystem    CourtSystem `json:"court_system"`
	Jurisdiction   string      `json:"jurisdiction"`
	DataSource     string      `json:"data_source"`
	Success        bool        `json:"success"`
	FallbackUsed   bool        `json:"fallback_used"`
	ResponseTimeMS int64       `json:"response_time_ms"`
	Confidence     float64     `json:"confidence"`
	ErrorCount     int         `json:"error_count"`
}
