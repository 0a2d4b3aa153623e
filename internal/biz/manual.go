package biz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// ManualEntryConfidence is the fixed confidence assigned to data a human
// operator submitted against a pending manual entry.
const ManualEntryConfidence = 0.8

// DefaultManualEntryDeadline is how long a pending entry stays open.
const DefaultManualEntryDeadline = 24 * time.Hour

// ErrEntryNotFound is returned when completing an unknown or already
// completed tracking id.
var ErrEntryNotFound = fmt.Errorf("pending entry not found")

// PendingEntry is one registered manual-entry request awaiting a human.
type PendingEntry struct {
	TrackingID   string            `json:"tracking_id"`
	CourtID      string            `json:"court_id"`
	Jurisdiction string            `json:"jurisdiction"`
	Criteria     map[string]string `json:"criteria,omitempty"`
	RequestedAt  time.Time         `json:"requested_at"`
	Deadline     time.Time         `json:"deadline"`
}

// ManualEntryCollector registers requests for a human operator to enter
// case data. Collect returns only a tracking id at confidence zero; the
// later CompleteEntry call produces the data-bearing result.
type ManualEntryCollector struct {
	mu       sync.Mutex
	pending  map[string]*PendingEntry
	deadline time.Duration
	now      func() time.Time
	logger   *log.Helper
}

// NewManualEntryCollector creates the manual entry collector.
func NewManualEntryCollector(c *conf.Fallback, logger log.Logger) *ManualEntryCollector {
	deadline := DefaultManualEntryDeadline
	if c != nil && c.ManualEntryDeadline != nil && c.ManualEntryDeadline.AsDuration() > 0 {
		deadline = c.ManualEntryDeadline.AsDuration()
	}
	return &ManualEntryCollector{
		pending:  make(map[string]*PendingEntry),
		deadline: deadline,
		now:      time.Now,
		logger:   log.NewHelper(logger),
	}
}

// purgeExpiredLocked drops entries whose deadline has passed. Caller holds mu.
func (m *ManualEntryCollector) purgeExpiredLocked(now time.Time) {
	for id, e := range m.pending {
		if now.After(e.Deadline) {
			delete(m.pending, id)
			m.logger.Infow("manual entry request expired",
				"tracking_id", id,
				"deadline", e.Deadline)
		}
	}
}

// Method implements Collector.
func (m *ManualEntryCollector) Method() model.FallbackMethod { return model.FallbackManualEntry }

// Collect implements Collector: it registers a pending request and returns
// a tracking id. Confidence stays zero until a human submits data.
func (m *ManualEntryCollector) Collect(_ context.Context, req *model.CourtDataRequest) *model.FallbackResult {
	now := m.now()
	entry := &PendingEntry{
		TrackingID:   uuid.NewString(),
		CourtID:      req.Criterion("court_id"),
		Jurisdiction: req.Jurisdiction,
		Criteria:     req.SearchCriteria,
		RequestedAt:  now,
		Deadline:     now.Add(m.deadline),
	}

	m.mu.Lock()
	m.purgeExpiredLocked(now)
	m.pending[entry.TrackingID] = entry
	m.mu.Unlock()

	m.logger.Infow("manual entry request registered",
		"tracking_id", entry.TrackingID,
		"jurisdiction", entry.Jurisdiction,
		"deadline", entry.Deadline)

	return &model.FallbackResult{
		Method:     model.FallbackManualEntry,
		SourceType: "manual_entry",
		Data: map[string]any{
			"tracking_id": entry.TrackingID,
			"deadline":    entry.Deadline.UTC().Format(time.RFC3339),
		},
		Confidence:         0,
		Timestamp:          time.Now(),
		VerificationNeeded: true,
	}
}

// CompleteEntry records the data a human operator submitted against a
// tracking id and returns the completed result at the fixed human-entry
// confidence. The pending entry is consumed. An entry past its deadline
// is treated as not found.
func (m *ManualEntryCollector) CompleteEntry(trackingID string, data map[string]any) (*model.FallbackResult, error) {
	now := m.now()

	m.mu.Lock()
	entry, ok := m.pending[trackingID]
	if ok {
		delete(m.pending, trackingID)
		if now.After(entry.Deadline) {
			ok = false
		}
	}
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, trackingID)
	}

	merged := make(map[string]any, len(data)+2)
	for k, v := range data {
		merged[k] = v
	}
	merged["tracking_id"] = entry.TrackingID
	if entry.Jurisdiction != "" {
		merged["jurisdiction"] = entry.Jurisdiction
	}

	m.logger.Infow("manual entry completed",
		"tracking_id", trackingID,
		"fields", len(data))

	return &model.FallbackResult{
		Method:     model.FallbackManualEntry,
		SourceType: "manual_entry",
		Data:       merged,
		Confidence: ManualEntryConfidence,
		Timestamp:  time.Now(),
	}, nil
}

// PendingEntries returns a snapshot of open manual-entry requests.
// Expired entries are dropped first.
func (m *ManualEntryCollector) PendingEntries() []*PendingEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.purgeExpiredLocked(m.now())

	out := make([]*PendingEntry, 0, len(m.pending))
	for _, e := range m.pending {
		copied := *e
		out = append(out, &copied)
	}
	return out
}
