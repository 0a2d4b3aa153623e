package data

import (
	"context"
	"testing"
	"time"

	"CourtGate/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBreakerMirror(t *testing.T) (*RedisBreakerMirror, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewBreakerMirror(rdb, log.DefaultLogger), mr
}

func TestBreakerMirrorPublishAndStates(t *testing.T) {
	mirror, _ := setupBreakerMirror(t)
	ctx := context.Background()

	require.NoError(t, mirror.Publish(ctx, model.BreakerState{
		Service:   "federal_courts",
		Failures:  5,
		IsOpen:    true,
		Threshold: 5,
	}))
	require.NoError(t, mirror.Publish(ctx, model.BreakerState{
		Service:  "state_courts_CA",
		Failures: 1,
	}))

	states, err := mirror.States(ctx)
	require.NoError(t, err)
	require.Len(t, states, 2)

	byService := make(map[string]model.BreakerState, len(states))
	for _, s := range states {
		byService[s.Service] = s
	}
	assert.True(t, byService["federal_courts"].IsOpen)
	assert.Equal(t, 5, byService["federal_courts"].Failures)
	assert.False(t, byService["state_courts_CA"].IsOpen)
}

func TestBreakerMirrorOverwritesSameService(t *testing.T) {
	mirror, _ := setupBreakerMirror(t)
	ctx := context.Background()

	require.NoError(t, mirror.Publish(ctx, model.BreakerState{Service: "federal_courts", IsOpen: true}))
	require.NoError(t, mirror.Publish(ctx, model.BreakerState{Service: "federal_courts", IsOpen: false}))

	states, err := mirror.States(ctx)
	require.NoError(t, err)
	require.Len(t, states, 1)
	assert.False(t, states[0].IsOpen)
}

func TestBreakerMirrorEntryExpires(t *testing.T) {
	mirror, mr := setupBreakerMirror(t)
	ctx := context.Background()

	require.NoError(t, mirror.Publish(ctx, model.BreakerState{Service: "federal_courts"}))
	mr.FastForward(breakerMirrorTTL + time.Minute)

	states, err := mirror.States(ctx)
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestBreakerMirrorNilRedis(t *testing.T) {
	mirror := NewBreakerMirror(nil, log.DefaultLogger)
	ctx := context.Background()

	assert.NoError(t, mirror.Publish(ctx, model.BreakerState{Service: "federal_courts"}))
	states, err := mirror.States(ctx)
	assert.NoError(t, err)
	assert.Nil(t, states)
}
