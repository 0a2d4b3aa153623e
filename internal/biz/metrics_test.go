package biz

import (
	"fmt"
	"testing"

	"CourtGate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordAndReport(t *testing.T) {
	m := NewPerformanceMetrics()

	m.Record(&model.CourtAPIResponse{
		Success:        true,
		CourtSystem:    model.CourtSystemFederal,
		Jurisdiction:   "nysd",
		ResponseTimeMS: 100,
	})
	m.Record(&model.CourtAPIResponse{
		Success:        false,
		CourtSystem:    model.CourtSystemFederal,
		Jurisdiction:   "nysd",
		ResponseTimeMS: 300,
		FallbackUsed:   true,
	})
	m.Record(&model.CourtAPIResponse{
		Success:        true,
		CourtSystem:    model.CourtSystemState,
		Jurisdiction:   "CA",
		ResponseTimeMS: 200,
	})

	report := m.Report()
	assert.Equal(t, int64(3), report.TotalRequests)
	assert.Equal(t, int64(2), report.SuccessfulRequests)
	assert.InDelta(t, 2.0/3.0, report.SuccessRate, 1e-9)
	assert.Equal(t, int64(1), report.FallbackUsed)
	assert.InDelta(t, 1.0/3.0, report.FallbackRate, 1e-9)
	assert.InDelta(t, 200.0, report.AvgResponseTimeMS, 1e-9)

	assert.InDelta(t, 50.0, report.SystemAvailability["federal:nysd"], 1e-9)
	assert.InDelta(t, 100.0, report.SystemAvailability["state:CA"], 1e-9)
}

func TestMetricsEmptyReport(t *testing.T) {
	report := NewPerformanceMetrics().Report()
	assert.Zero(t, report.TotalRequests)
	assert.Zero(t, report.SuccessRate)
	assert.Empty(t, report.SystemAvailability)
}

func TestMetricsHistoryBounded(t *testing.T) {
	m := NewPerformanceMetrics()

	for i := 0; i < HistoryLimit+25; i++ {
		m.Record(&model.CourtAPIResponse{
			Success:      true,
			CourtSystem:  model.CourtSystemState,
			Jurisdiction: fmt.Sprintf("J%d", i),
		})
	}

	recent := m.Recent(0)
	require.Len(t, recent, HistoryLimit)
	// Oldest entries were evicted; the newest survives at the end.
	assert.Equal(t, fmt.Sprintf("J%d", HistoryLimit+24), recent[len(recent)-1].Jurisdiction)

	last10 := m.Recent(10)
	require.Len(t, last10, 10)
	assert.Equal(t, recent[len(recent)-10:], last10)
}
