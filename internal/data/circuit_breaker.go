package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const breakerMirrorTTL = time.Hour

// RedisBreakerMirror implements biz.BreakerMirror by writing the latest
// breaker state for each service into Redis. Operators and sibling
// instances can inspect "breaker:<service>" keys without calling the API.
type RedisBreakerMirror struct {
	rdb    *redis.Client
	logger *log.Helper
}

func NewBreakerMirror(rdb *redis.Client, logger log.Logger) *RedisBreakerMirror {
	return &RedisBreakerMirror{
		rdb:    rdb,
		logger: log.NewHelper(logger),
	}
}

// Publish stores the breaker state as JSON under breaker:<service>. The TTL
// keeps stale entries from lingering after a service key is retired.
func (m *RedisBreakerMirror) Publish(ctx context.Context, state model.BreakerState) error {
	if m.rdb == nil {
		return nil // Running without Redis, mirroring disabled
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal breaker state: %w", err)
	}

	key := fmt.Sprintf("breaker:%s", state.Service)
	if err := m.rdb.Set(ctx, key, raw, breakerMirrorTTL).Err(); err != nil {
		return fmt.Errorf("failed to mirror breaker state: %w", err)
	}

	m.logger.Debugw("breaker state mirrored",
		"service", state.Service,
		"is_open", state.IsOpen,
		"failures", state.Failures)
	return nil
}

// States reads back all mirrored breaker states. Used by the breaker
// inspection endpoint to show state across instances.
func (m *RedisBreakerMirror) States(ctx context.Context) ([]model.BreakerState, error) {
	if m.rdb == nil {
		return nil, nil
	}

	var (
		out    []model.BreakerState
		cursor uint64
	)
	for {
		keys, next, err := m.rdb.Scan(ctx, cursor, "breaker:*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan breaker keys: %w", err)
		}
		for _, key := range keys {
			raw, err := m.rdb.Get(ctx, key).Bytes()
			if err == redis.Nil {
				continue // Expired between scan and get
			}
			if err != nil {
				return nil, fmt.Errorf("failed to read breaker state %s: %w", key, err)
			}
			var state model.BreakerState
			if err := json.Unmarshal(raw, &state); err != nil {
				m.logger.Warnw("corrupt mirrored breaker state", "key", key, "error", err)
				continue
			}
			out = append(out, state)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return out, nil
}
