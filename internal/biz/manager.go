package biz

import (
	"context"
	"fmt"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"golang.org/x/sync/errgroup"
)

// Health probe timeouts.
const (
	federalProbeTimeout = 10 * time.Second
	stateProbeTimeout   = 5 * time.Second
)

// StateSource is the state adapter contract the orchestrator needs: the
// uniform search interface plus per-jurisdiction health probes.
type StateSource interface {
	SourceAdapter
	ProbeJurisdiction(ctx context.Context, stateCode string) error
}

// ResponseCache caches successful primary-path responses. Both methods are
// best-effort; implementations must swallow backend errors.
type ResponseCache interface {
	Get(ctx context.Context, req *model.CourtDataRequest) (*model.CourtAPIResponse, bool)
	Set(ctx context.Context, req *model.CourtDataRequest, resp *model.CourtAPIResponse)
}

// RequestAuditor persists completed request summaries. Record must not
// block the orchestrator.
type RequestAuditor interface {
	Record(summary model.RequestSummary)
}

// CourtIntegrationUsecase is the single entry point for searching court
// systems. It routes a request to the correct adapter, falls back to the
// alternative collection strategies when the primary path fails or comes
// back empty, merges and deduplicates results, scores confidence, and
// keeps the shared breaker registry and metrics up to date.
//
// SearchAllCourts never lets an error or panic escape: the caller always
// receives a well-formed response, failed or not.
type CourtIntegrationUsecase struct {
	federal  SourceAdapter
	state    StateSource
	fallback *FallbackCoordinator
	breakers *CircuitBreakerRegistry
	metrics  *PerformanceMetrics
	cache    ResponseCache
	auditor  RequestAuditor

	stateJurisdictions []string
	logger             *log.Helper
}

// NewCourtIntegrationUsecase creates the orchestrator. cache and auditor
// may be nil (caching and persistence disabled).
func NewCourtIntegrationUsecase(
	federal SourceAdapter,
	state StateSource,
	fallback *FallbackCoordinator,
	breakers *CircuitBreakerRegistry,
	metrics *PerformanceMetrics,
	cache ResponseCache,
	auditor RequestAuditor,
	c *conf.Courts,
	logger log.Logger,
) *CourtIntegrationUsecase {
	var jurisdictions []string
	if c != nil && c.State != nil {
		jurisdictions = c.State.Jurisdictions
	}
	return &CourtIntegrationUsecase{
		federal:            federal,
		state:              state,
		fallback:           fallback,
		breakers:           breakers,
		metrics:            metrics,
		cache:              cache,
		auditor:            auditor,
		stateJurisdictions: jurisdictions,
		logger:             log.NewHelper(logger),
	}
}

// SearchAllCourts executes one search request end to end.
func (uc *CourtIntegrationUsecase) SearchAllCourts(ctx context.Context, req *model.CourtDataRequest) (resp *model.CourtAPIResponse) {
	start := time.Now()

	resp = &model.CourtAPIResponse{
		CourtSystem:  req.CourtSystem,
		Jurisdiction: req.Jurisdiction,
		Data:         []model.CaseRecord{},
	}

	finalize := func() {
		resp.ResponseTimeMS = time.Since(start).Milliseconds()
		resp.ConfidenceScore = ScoreConfidence(resp.FallbackUsed, resp.ResponseTimeMS, resp.Warnings)
		uc.metrics.Record(resp)
		if uc.auditor != nil {
			uc.auditor.Record(model.RequestSummary{
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
		}
	}

	// Nothing escapes this method: a panic anywhere below becomes a
	// failed response.
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Errorw("search pipeline panicked",
				"court_system", req.CourtSystem,
				"jurisdiction", req.Jurisdiction,
				"panic", r)
			resp.Success = false
			resp.Data = []model.CaseRecord{}
			resp.Errors = append(resp.Errors, fmt.Sprintf("internal error: %v", r))
			finalize()
		}
	}()

	if uc.cache != nil {
		if cached, ok := uc.cache.Get(ctx, req); ok {
			uc.logger.Debugw("search served from cache",
				"court_system", req.CourtSystem,
				"jurisdiction", req.Jurisdiction)
			// Cache hits count as completed requests: stamp this call's
			// elapsed time and feed metrics and the audit log like any
			// other response.
			resp = cached
			finalize()
			return resp
		}
	}

	var (
		primaryRecords  []model.CaseRecord
		fallbackRecords []model.CaseRecord
		primarySuccess  bool
	)

	primary := uc.dispatch(ctx, req)
	if primary != nil {
		resp.Errors = append(resp.Errors, primary.Errors...)
		resp.Warnings = append(resp.Warnings, primary.Warnings...)
		resp.DataSource = primary.DataSource
		if primary.Success && len(primary.Data) > 0 {
			primarySuccess = true
			primaryRecords = primary.Data
		}
	}

	if (!primarySuccess || len(primaryRecords) == 0) && req.UseFallback {
		results := uc.fallback.CollectAll(ctx, req)
		resp.FallbackUsed = true
		for _, r := range results {
			for _, e := range r.Errors {
				resp.Warnings = append(resp.Warnings, fmt.Sprintf("fallback %s: %s", r.Method, e))
			}
		}
		fallbackRecords = CasesFromResults(results, req.Jurisdiction)

		if primary == nil || !primary.Success {
			resp.DataSource = model.DataSourceFallback
		} else {
			resp.DataSource = model.DataSourceAggregated
		}
	}

	resp.Data = MergeCases(primaryRecords, fallbackRecords, req.Jurisdiction)
	resp.Success = len(resp.Data) > 0
	finalize()

	if uc.cache != nil && resp.Success && !resp.FallbackUsed {
		uc.cache.Set(ctx, req, resp)
	}

	uc.logger.Infow("search completed",
		"court_system", req.CourtSystem,
		"jurisdiction", req.Jurisdiction,
		"success", resp.Success,
		"cases", len(resp.Data),
		"fallback_used", resp.FallbackUsed,
		"confidence", resp.ConfidenceScore,
		"duration_ms", resp.ResponseTimeMS)
	return resp
}

// dispatch routes the request to the adapter for its court system. An
// unsupported system yields a failed pseudo-response so the fallback path
// can still run.
func (uc *CourtIntegrationUsecase) dispatch(ctx context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
	switch req.CourtSystem {
	case model.CourtSystemFederal:
		return uc.federal.Search(ctx, req)
	case model.CourtSystemState, model.CourtSystemLocal:
		return uc.state.Search(ctx, req)
	default:
		return &model.CourtAPIResponse{
			CourtSystem:  req.CourtSystem,
			Jurisdiction: req.Jurisdiction,
			DataSource:   model.DataSourceFallback,
			Errors: []string{
				fmt.Sprintf("unsupported court system %q", req.CourtSystem),
			},
		}
	}
}

// GetPerformanceReport assembles the operational report: rolling metrics,
// breaker snapshot and the last 10 request summaries.
func (uc *CourtIntegrationUsecase) GetPerformanceReport() map[string]any {
	report := uc.metrics.Report()
	return map[string]any{
		"total_requests":       report.TotalRequests,
		"successful_requests":  report.SuccessfulRequests,
		"success_rate":         report.SuccessRate,
		"fallback_used":        report.FallbackUsed,
		"fallback_rate":        report.FallbackRate,
		"avg_response_time_ms": report.AvgResponseTimeMS,
		"system_availability":  report.SystemAvailability,
		"circuit_breakers":     uc.breakers.Snapshot(),
		"recent_requests":      uc.metrics.Recent(10),
	}
}

// HealthCheck probes every configured integration concurrently: the
// federal gateway, each configured state jurisdiction, and the fallback
// subsystem. The overall status is healthy when everything passes,
// degraded when some probes fail, unhealthy when the majority fail, and
// error when the check itself breaks.
func (uc *CourtIntegrationUsecase) HealthCheck(ctx context.Context) (out map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			uc.logger.Errorw("health check panicked", "panic", r)
			out = map[string]any{
				"status": "error",
				"error":  fmt.Sprintf("%v", r),
			}
		}
	}()

	type probeResult struct {
		name string
		err  error
	}

	probes := []struct {
		name    string
		timeout time.Duration
		run     func(ctx context.Context) error
	}{
		{"federal_courts", federalProbeTimeout, uc.federal.Probe},
		{"fallback_methods", stateProbeTimeout, uc.fallback.Probe},
	}
	for _, code := range uc.stateJurisdictions {
		code := code
		probes = append(probes, struct {
			name    string
			timeout time.Duration
			run     func(ctx context.Context) error
		}{
			name:    StateBreakerKey(code),
			timeout: stateProbeTimeout,
			run: func(ctx context.Context) error {
				return uc.state.ProbeJurisdiction(ctx, code)
			},
		})
	}

	results := make([]probeResult, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		i, p := i, p
		g.Go(func() error {
			probeCtx, cancel := context.WithTimeout(gctx, p.timeout)
			defer cancel()
			results[i] = probeResult{name: p.name, err: p.run(probeCtx)}
			return nil
		})
	}
	_ = g.Wait()

	checks := make(map[string]string, len(results))
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			checks[r.name] = "error: " + r.err.Error()
		} else {
			checks[r.name] = "ok"
		}
	}

	status := "healthy"
	switch {
	case failed == 0:
		status = "healthy"
	case failed*2 > len(results):
		status = "unhealthy"
	default:
		status = "degraded"
	}

	return map[string]any{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
}
