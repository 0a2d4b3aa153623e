// Package biz contains the core business logic of CourtGate: the circuit
// breaker registry, source adapters, fallback collectors, the aggregation
// engine and the court integration orchestrator.
package biz

import (
	"context"
	"sync"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
)

// Default circuit breaker policy.
const (
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 5 * time.Minute
)

// BreakerNotifier receives circuit breaker state-change events.
// Implementations must not block the caller for long; delivery is
// best-effort.
type BreakerNotifier interface {
	NotifyOpened(ctx context.Context, event *model.CircuitOpenedEvent)
	NotifyRecovered(ctx context.Context, event *model.CircuitRecoveredEvent)
}

// BreakerMirror publishes breaker state snapshots to an external store for
// operational visibility. Publishing is best-effort; failures are logged
// and ignored.
type BreakerMirror interface {
	Publish(ctx context.Context, state model.BreakerState) error
}

type breakerEntry struct {
	failures  int
	open      bool
	openedAt  time.Time
	resetTime time.Time
}

// CircuitBreakerRegistry gates calls to unreliable upstream integrations.
// Entries are keyed by service name (e.g. "federal_courts",
// "state_courts_CA") and created lazily on first failure.
//
// The breaker has no background timer: recovery happens lazily when IsOpen
// is consulted after the reset time has passed. By default a success does
// not clear accumulated failures; only the timeout path resets the counter.
// ResetOnSuccess switches to the conventional clear-on-success policy.
type CircuitBreakerRegistry struct {
	mu      sync.Mutex
	entries map[string]*breakerEntry

	threshold      int
	resetTimeout   time.Duration
	resetOnSuccess bool

	notifier BreakerNotifier
	mirror   BreakerMirror
	logger   *log.Helper

	// now is injectable for tests.
	now func() time.Time
}

// NewCircuitBreakerRegistry creates a registry from configuration.
// conf, notifier and mirror may all be nil.
func NewCircuitBreakerRegistry(c *conf.Courts_Breaker, notifier BreakerNotifier, mirror BreakerMirror, logger log.Logger) *CircuitBreakerRegistry {
	threshold := DefaultFailureThreshold
	resetTimeout := DefaultResetTimeout
	resetOnSuccess := false
	if c != nil {
		if c.FailureThreshold > 0 {
			threshold = c.FailureThreshold
		}
		if c.ResetTimeout != nil && c.ResetTimeout.AsDuration() > 0 {
			resetTimeout = c.ResetTimeout.AsDuration()
		}
		resetOnSuccess = c.ResetOnSuccess
	}

	return &CircuitBreakerRegistry{
		entries:        make(map[string]*breakerEntry),
		threshold:      threshold,
		resetTimeout:   resetTimeout,
		resetOnSuccess: resetOnSuccess,
		notifier:       notifier,
		mirror:         mirror,
		logger:         log.NewHelper(logger),
		now:            time.Now,
	}
}

// IsOpen reports whether calls to the named service should be skipped.
// An open breaker whose reset time has passed is lazily closed here and
// reported as closed.
func (r *CircuitBreakerRegistry) IsOpen(service string) bool {
	r.mu.Lock()

	entry, ok := r.entries[service]
	if !ok {
		r.mu.Unlock()
		return false
	}

	if entry.open && !r.now().Before(entry.resetTime) {
		openFor := r.now().Sub(entry.openedAt)
		entry.failures = 0
		entry.open = false
		state := r.stateLocked(service, entry)
		r.mu.Unlock()

		r.logger.Infow("circuit breaker recovered after timeout",
			"service", service,
			"open_for", openFor)
		r.publish(state)
		if r.notifier != nil {
			r.notifier.NotifyRecovered(context.Background(), &model.CircuitRecoveredEvent{
				Service:     service,
				RecoveredAt: r.now(),
				OpenFor:     openFor,
			})
		}
		return false
	}

	open := entry.open
	r.mu.Unlock()
	return open
}

// RecordFailure registers one failure against the named service, creating
// the entry with default policy if absent. Reaching the threshold trips
// the breaker open and schedules its reset time.
func (r *CircuitBreakerRegistry) RecordFailure(service string) {
	r.mu.Lock()

	entry, ok := r.entries[service]
	if !ok {
		entry = &breakerEntry{}
		r.entries[service] = entry
	}

	entry.failures++
	tripped := false
	if entry.failures >= r.threshold && !entry.open {
		entry.open = true
		entry.openedAt = r.now()
		entry.resetTime = r.now().Add(r.resetTimeout)
		tripped = true
	}
	failures := entry.failures
	resetTime := entry.resetTime
	state := r.stateLocked(service, entry)
	r.mu.Unlock()

	if tripped {
		r.logger.Warnw("circuit breaker opened",
			"service", service,
			"failures", failures,
			"reset_time", resetTime)
		r.publish(state)
		if r.notifier != nil {
			r.notifier.NotifyOpened(context.Background(), &model.CircuitOpenedEvent{
				Service:   service,
				Failures:  failures,
				OpenedAt:  r.now(),
				ResetTime: resetTime,
			})
		}
	} else {
		r.logger.Debugw("circuit breaker failure recorded",
			"service", service,
			"failures", failures,
			"threshold", r.threshold)
	}
}

// RecordSuccess registers a successful call. Under the default policy this
// is a no-op: accumulated failures only clear via the reset timeout.
func (r *CircuitBreakerRegistry) RecordSuccess(service string) {
	if !r.resetOnSuccess {
		return
	}

	r.mu.Lock()
	if entry, ok := r.entries[service]; ok && !entry.open {
		entry.failures = 0
	}
	r.mu.Unlock()
}

// Snapshot returns the current state of every breaker entry.
func (r *CircuitBreakerRegistry) Snapshot() []model.BreakerState {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.BreakerState, 0, len(r.entries))
	for service, entry := range r.entries {
		out = append(out, r.stateLocked(service, entry))
	}
	return out
}

func (r *CircuitBreakerRegistry) stateLocked(service string, entry *breakerEntry) model.BreakerState {
	return model.BreakerState{
		Service:      service,
		Failures:     entry.failures,
		IsOpen:       entry.open,
		Threshold:    r.threshold,
		ResetTimeout: r.resetTimeout,
		ResetTime:    entry.resetTime,
	}
}

func (r *CircuitBreakerRegistry) publish(state model.BreakerState) {
	if r.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := r.mirror.Publish(ctx, state); err != nil {
		r.logger.Warnw("failed to mirror breaker state", "service", state.Service, "error", err)
	}
}
