package data

import (
	"context"
	"time"

	"CourtGate/internal/model"
	pkgerrors "CourtGate/pkg/errors"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// CourtRequestLog is the GORM model for the court_request_logs table.
type CourtRequestLog struct {
	ID             int64     `gorm:"primaryKey;column:id"`
	CourtSystem    string    `gorm:"column:court_system;type:varchar(32);not null;index"`
	Jurisdiction   string    `gorm:"column:jurisdiction;type:varchar(64);not null"`
	DataSource     string    `gorm:"column:data_source;type:varchar(32);not null"`
	Success        bool      `gorm:"column:success;not null"`
	FallbackUsed   bool      `gorm:"column:fallback_used;not null"`
	ResponseTimeMS int64     `gorm:"column:response_time_ms;not null"`
	Confidence     float64   `gorm:"column:confidence;not null"`
	ErrorCount     int       `gorm:"column:error_count;default:0;not null"`
	RequestedAt    time.Time `gorm:"column:requested_at;not null;index"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (CourtRequestLog) TableName() string {
	return "court_request_logs"
}

// RequestAuditorImpl implements biz.RequestAuditor. Writes go through a
// buffered channel so a slow database never blocks the request path.
type RequestAuditorImpl struct {
	db      *gorm.DB
	logChan chan *CourtRequestLog
	logger  *log.Helper
}

// NewRequestAuditor creates a new request auditor with async channel
func NewRequestAuditor(d *Data, logger log.Logger) *RequestAuditorImpl {
	ra := &RequestAuditorImpl{
		db:      d.db,
		logChan: make(chan *CourtRequestLog, 1000), // Buffer size 1000 to prevent blocking
		logger:  log.NewHelper(logger),
	}

	// Start background goroutine for async persistence
	go ra.start()

	return ra
}

// start processes request records from the channel
func (r *RequestAuditorImpl) start() {
	for rec := range r.logChan {
		if r.db == nil {
			continue
		}
		ctx := context.Background()
		if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
			r.logger.Errorw("failed to write request log",
				"court_system", rec.CourtSystem,
				"jurisdiction", rec.Jurisdiction,
				"error", err)
		} else {
			r.logger.Debugw("request log written",
				"court_system", rec.CourtSystem,
				"data_source", rec.DataSource)
		}
	}
}

// Record queues a request summary for persistence (non-blocking).
func (r *RequestAuditorImpl) Record(summary model.RequestSummary) {
	rec := &CourtRequestLog{
		CourtSystem:    string(summary.CourtSystem),
		Jurisdiction:   summary.Jurisdiction,
		DataSource:     summary.DataSource,
		Success:        summary.Success,
		FallbackUsed:   summary.FallbackUsed,
		ResponseTimeMS: summary.ResponseTimeMS,
		Confidence:     summary.Confidence,
		ErrorCount:     summary.ErrorCount,
		RequestedAt:    summary.Timestamp,
	}

	select {
	case r.logChan <- rec:
		// Successfully queued
	default:
		r.logger.Warnw("request log channel full, dropping record",
			"court_system", rec.CourtSystem,
			"jurisdiction", rec.Jurisdiction)
	}
}

// RecentRequests returns the most recent persisted request records, newest
// first. Used by the performance report endpoint when a longer window than
// the in-memory history is needed.
func (r *RequestAuditorImpl) RecentRequests(ctx context.Context, limit int) ([]CourtRequestLog, error) {
	if r.db == nil {
		return nil, pkgerrors.ErrDatabaseUnavailable
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var recs []CourtRequestLog
	err := r.db.WithContext(ctx).
		Order("requested_at DESC").
		Limit(limit).
		Find(&recs).Error
	if err != nil {
		return nil, pkgerrors.WrapDBError("query recent request logs", err)
	}
	return recs, nil
}
