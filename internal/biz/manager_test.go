package biz

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAdapter is a scriptable SourceAdapter / StateSource.
type stubAdapter struct {
	name       string
	search     func(ctx context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse
	probeErr   error
	stateProbe map[string]error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Search(ctx context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
	return s.search(ctx, req)
}

func (s *stubAdapter) Probe(context.Context) error { return s.probeErr }

func (s *stubAdapter) ProbeJurisdiction(_ context.Context, code string) error {
	if s.stateProbe == nil {
		return s.probeErr
	}
	return s.stateProbe[code]
}

type memoryAuditor struct {
	mu        sync.Mutex
	summaries []model.RequestSummary
}

func (a *memoryAuditor) Record(s model.RequestSummary) {
	a.mu.Lock()
	a.summaries = append(a.summaries, s)
	a.mu.Unlock()
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*model.CourtAPIResponse
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*model.CourtAPIResponse)}
}

func (c *memoryCache) key(req *model.CourtDataRequest) string {
	return string(req.CourtSystem) + "|" + req.Jurisdiction
}

func (c *memoryCache) Get(_ context.Context, req *model.CourtDataRequest) (*model.CourtAPIResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.entries[c.key(req)]
	if !ok {
		return nil, false
	}
	hit := *resp
	hit.DataSource = model.DataSourceCache
	return &hit, true
}

func (c *memoryCache) Set(_ context.Context, req *model.CourtDataRequest, resp *model.CourtAPIResponse) {
	c.mu.Lock()
	c.entries[c.key(req)] = resp
	c.mu.Unlock()
}

func successfulFederalSearch(_ context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
	return &model.CourtAPIResponse{
		Success:      true,
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: req.Jurisdiction,
		DataSource:   model.DataSourceFederal,
		Data: []model.CaseRecord{
			&model.FederalCase{CaseNumber: "1:24-cv-01234", District: req.Jurisdiction},
		},
	}
}

func failedSearch(errMsg string) func(context.Context, *model.CourtDataRequest) *model.CourtAPIResponse {
	return func(_ context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
		return &model.CourtAPIResponse{
			CourtSystem:  req.CourtSystem,
			Jurisdiction: req.Jurisdiction,
			DataSource:   model.DataSourceFederal,
			Errors:       []string{errMsg},
		}
	}
}

type usecaseOptions struct {
	federal *stubAdapter
	state   *stubAdapter
	cache   ResponseCache
	auditor RequestAuditor
}

func newTestUsecase(t *testing.T, opts usecaseOptions) (*CourtIntegrationUsecase, *PerformanceMetrics) {
	t.Helper()
	logger := log.DefaultLogger

	if opts.federal == nil {
		opts.federal = &stubAdapter{name: model.DataSourceFederal, search: successfulFederalSearch}
	}
	if opts.state == nil {
		opts.state = &stubAdapter{
			name:   model.DataSourceState,
			search: failedSearch("state gateway unavailable"),
		}
	}

	coord, _, _ := newTestCoordinator(t, nil)
	breakers := NewCircuitBreakerRegistry(nil, nil, nil, logger)
	metrics := NewPerformanceMetrics()

	uc := NewCourtIntegrationUsecase(
		opts.federal,
		opts.state,
		coord,
		breakers,
		metrics,
		opts.cache,
		opts.auditor,
		&conf.Courts{State: &conf.Courts_State{Jurisdictions: []string{"CA", "NY"}}},
		logger,
	)
	return uc, metrics
}

func TestSearchAllCourtsFederalSuccess(t *testing.T) {
	auditor := &memoryAuditor{}
	uc, metrics := newTestUsecase(t, usecaseOptions{auditor: auditor})

	resp := uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
		UseFallback:  true,
	})

	assert.True(t, resp.Success)
	assert.False(t, resp.FallbackUsed)
	assert.Equal(t, model.DataSourceFederal, resp.DataSource)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "1:24-cv-01234", resp.Data[0].Normalize()["case_number"])
	assert.InDelta(t, 1.0, resp.ConfidenceScore, 1e-9)

	report := metrics.Report()
	assert.Equal(t, int64(1), report.TotalRequests)

	require.Len(t, auditor.summaries, 1)
	assert.True(t, auditor.summaries[0].Success)
	assert.Equal(t, model.CourtSystemFederal, auditor.summaries[0].CourtSystem)
}

func TestSearchAllCourtsFallbackWhenPrimaryFails(t *testing.T) {
	uc, _ := newTestUsecase(t, usecaseOptions{
		federal: &stubAdapter{name: model.DataSourceFederal, search: failedSearch("gateway 502")},
	})

	resp := uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
		UseFallback:  true,
		SearchCriteria: map[string]string{
			"email_text": "Case No: 1:24-cv-01234 hearing 03/15/2026 Judge: Maria Alvarez",
		},
	})

	assert.True(t, resp.Success)
	assert.True(t, resp.FallbackUsed)
	assert.Equal(t, model.DataSourceFallback, resp.DataSource)
	assert.Contains(t, resp.Errors, "gateway 502")
	require.NotEmpty(t, resp.Data)
	// Fallback data can never reach full confidence.
	assert.LessOrEqual(t, resp.ConfidenceScore, 0.7)
	assert.Greater(t, resp.ConfidenceScore, 0.0)
}

func TestSearchAllCourtsFallbackDisabled(t *testing.T) {
	uc, _ := newTestUsecase(t, usecaseOptions{
		federal: &stubAdapter{name: model.DataSourceFederal, search: failedSearch("gateway 502")},
	})

	resp := uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
		UseFallback:  false,
	})

	assert.False(t, resp.Success)
	assert.False(t, resp.FallbackUsed)
	assert.Empty(t, resp.Data)
}

func TestSearchAllCourtsAggregatesPrimaryAndFallback(t *testing.T) {
	// Primary succeeds but returns nothing, so fallback runs and the
	// combined response is marked aggregated.
	uc, _ := newTestUsecase(t, usecaseOptions{
		federal: &stubAdapter{
			name: model.DataSourceFederal,
			search: func(_ context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
				return &model.CourtAPIResponse{
					Success:      true,
					CourtSystem:  model.CourtSystemFederal,
					Jurisdiction: req.Jurisdiction,
					DataSource:   model.DataSourceFederal,
					Data:         []model.CaseRecord{},
				}
			},
		},
	})

	resp := uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
		UseFallback:  true,
		SearchCriteria: map[string]string{
			"email_text": "Case No: 1:24-cv-01234",
		},
	})

	assert.True(t, resp.FallbackUsed)
	assert.Equal(t, model.DataSourceAggregated, resp.DataSource)
	assert.True(t, resp.Success)
}

func TestSearchAllCourtsUnsupportedSystem(t *testing.T) {
	uc, _ := newTestUsecase(t, usecaseOptions{})

	resp := uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemTribal,
		Jurisdiction: "navajo-nation",
		UseFallback:  false,
	})

	assert.False(t, resp.Success)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0], "unsupported court system")
}

func TestSearchAllCourtsSurvivesPanic(t *testing.T) {
	uc, metrics := newTestUsecase(t, usecaseOptions{
		federal: &stubAdapter{
			name: model.DataSourceFederal,
			search: func(context.Context, *model.CourtDataRequest) *model.CourtAPIResponse {
				panic("adapter exploded")
			},
		},
	})

	resp := uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
	})

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Data)
	require.NotEmpty(t, resp.Errors)
	assert.Contains(t, resp.Errors[0], "internal error")
	// The failed request still made it into the metrics.
	assert.Equal(t, int64(1), metrics.Report().TotalRequests)
}

func TestSearchAllCourtsServesFromCache(t *testing.T) {
	cache := newMemoryCache()
	auditor := &memoryAuditor{}
	calls := 0
	uc, metrics := newTestUsecase(t, usecaseOptions{
		cache:   cache,
		auditor: auditor,
		federal: &stubAdapter{
			name: model.DataSourceFederal,
			search: func(ctx context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
				calls++
				return successfulFederalSearch(ctx, req)
			},
		},
	})

	req := &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
	}

	first := uc.SearchAllCourts(context.Background(), req)
	require.True(t, first.Success)
	second := uc.SearchAllCourts(context.Background(), req)
	require.True(t, second.Success)

	assert.Equal(t, 1, calls)
	assert.Equal(t, model.DataSourceCache, second.DataSource)

	// A cache hit is still a completed request: it shows up in metrics
	// and the audit log with the cache data source.
	report := metrics.Report()
	assert.Equal(t, int64(2), report.TotalRequests)
	assert.Equal(t, int64(2), report.SuccessfulRequests)

	require.Len(t, auditor.summaries, 2)
	assert.Equal(t, model.DataSourceCache, auditor.summaries[1].DataSource)
	assert.True(t, auditor.summaries[1].Success)
}

func TestSearchAllCourtsDoesNotCacheFallback(t *testing.T) {
	cache := newMemoryCache()
	uc, _ := newTestUsecase(t, usecaseOptions{
		cache:   cache,
		federal: &stubAdapter{name: model.DataSourceFederal, search: failedSearch("down")},
	})

	uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
		UseFallback:  true,
		SearchCriteria: map[string]string{
			"email_text": "Case No: 1:24-cv-01234",
		},
	})

	assert.Empty(t, cache.entries)
}

func TestGetPerformanceReport(t *testing.T) {
	uc, _ := newTestUsecase(t, usecaseOptions{})

	uc.SearchAllCourts(context.Background(), &model.CourtDataRequest{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: "nysd",
	})

	report := uc.GetPerformanceReport()
	assert.Equal(t, int64(1), report["total_requests"])
	assert.Contains(t, report, "success_rate")
	assert.Contains(t, report, "system_availability")
	assert.Contains(t, report, "circuit_breakers")

	recent, ok := report["recent_requests"].([]model.RequestSummary)
	require.True(t, ok)
	assert.Len(t, recent, 1)
}

func TestHealthCheckAllHealthy(t *testing.T) {
	uc, _ := newTestUsecase(t, usecaseOptions{})

	out := uc.HealthCheck(context.Background())
	assert.Equal(t, "healthy", out["status"])

	checks, ok := out["checks"].(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "ok", checks["federal_courts"])
	assert.Equal(t, "ok", checks["state_courts_CA"])
	assert.Equal(t, "ok", checks["state_courts_NY"])
	assert.Equal(t, "ok", checks["fallback_methods"])
}

func TestHealthCheckDegraded(t *testing.T) {
	uc, _ := newTestUsecase(t, usecaseOptions{
		state: &stubAdapter{
			name:   model.DataSourceState,
			search: failedSearch("unused"),
			stateProbe: map[string]error{
				"CA": fmt.Errorf("connection refused"),
			},
		},
	})

	out := uc.HealthCheck(context.Background())
	assert.Equal(t, "degraded", out["status"])

	checks := out["checks"].(map[string]string)
	assert.Contains(t, checks["state_courts_CA"], "connection refused")
	assert.Equal(t, "ok", checks["state_courts_NY"])
}

func TestHealthCheckUnhealthy(t *testing.T) {
	probeErr := fmt.Errorf("gateway down")
	uc, _ := newTestUsecase(t, usecaseOptions{
		federal: &stubAdapter{
			name:     model.DataSourceFederal,
			search:   successfulFederalSearch,
			probeErr: probeErr,
		},
		state: &stubAdapter{
			name:     model.DataSourceState,
			search:   failedSearch("unused"),
			probeErr: probeErr,
			stateProbe: map[string]error{
				"CA": probeErr,
				"NY": probeErr,
			},
		},
	})

	out := uc.HealthCheck(context.Background())
	// 3 of 4 probes failed; a failed majority is unhealthy.
	assert.Equal(t, "unhealthy", out["status"])
}
