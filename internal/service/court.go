package service

import (
	"context"
	"errors"
	"time"

	"CourtGate/internal/biz"
	"CourtGate/internal/data"
	"CourtGate/internal/model"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// SearchRequest is the JSON body of POST /v1/courts/search.
type SearchRequest struct {
	CourtSystem     string            `json:"court_system"`
	Jurisdiction    string            `json:"jurisdiction"`
	SearchCriteria  map[string]string `json:"search_criteria"`
	DataTypes       []string          `json:"data_types,omitempty"`
	Priority        string            `json:"priority,omitempty"`
	TimeoutSeconds  int               `json:"timeout_seconds,omitempty"`
	UseFallback     *bool             `json:"use_fallback,omitempty"`
	FallbackMethods []string          `json:"fallback_methods,omitempty"`
}

// SearchReply is the JSON form of a court search response.
type SearchReply struct {
	Success         bool             `json:"success"`
	CourtSystem     string           `json:"court_system"`
	Jurisdiction    string           `json:"jurisdiction"`
	DataSource      string           `json:"data_source"`
	ResponseTimeMS  int64            `json:"response_time_ms"`
	Data            []map[string]any `json:"data"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
	Errors          []string         `json:"errors,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
	FallbackUsed    bool             `json:"fallback_used"`
	ConfidenceScore float64          `json:"confidence_score"`
}

// CompleteRequest is the JSON body for completing a pending manual entry
// or phone verification.
type CompleteRequest struct {
	Data map[string]any `json:"data"`
}

// CompleteReply wraps the fallback result produced by a completion.
type CompleteReply struct {
	Method       string         `json:"method"`
	SourceType   string         `json:"source_type"`
	Data         map[string]any `json:"data"`
	Confidence   float64        `json:"confidence"`
	Timestamp    time.Time      `json:"timestamp"`
	Verification bool           `json:"verification_needed"`
}

// BreakersReply lists local breaker state alongside states mirrored from
// other instances.
type BreakersReply struct {
	Local    []model.BreakerState `json:"local"`
	Mirrored []model.BreakerState `json:"mirrored,omitempty"`
}

var validCourtSystems = map[model.CourtSystem]bool{
	model.CourtSystemFederal:        true,
	model.CourtSystemState:          true,
	model.CourtSystemLocal:          true,
	model.CourtSystemTribal:         true,
	model.CourtSystemAdministrative: true,
}

// CourtService exposes the court integration operations over HTTP.
type CourtService struct {
	uc       *biz.CourtIntegrationUsecase
	manual   *biz.ManualEntryCollector
	phone    *biz.PhoneVerificationCollector
	breakers *biz.CircuitBreakerRegistry
	mirror   *data.RedisBreakerMirror
	logger   *log.Helper
}

// NewCourtService creates a new CourtService instance.
func NewCourtService(
	uc *biz.CourtIntegrationUsecase,
	manual *biz.ManualEntryCollector,
	phone *biz.PhoneVerificationCollector,
	breakers *biz.CircuitBreakerRegistry,
	mirror *data.RedisBreakerMirror,
	logger log.Logger,
) *CourtService {
	return &CourtService{
		uc:       uc,
		manual:   manual,
		phone:    phone,
		breakers: breakers,
		mirror:   mirror,
		logger:   log.NewHelper(logger),
	}
}

// Search runs one court data search across primary sources and fallbacks.
func (s *CourtService) Search(ctx context.Context, req *SearchRequest) (*SearchReply, error) {
	s.logger.Infow("Search called",
		"court_system", req.CourtSystem,
		"jurisdiction", req.Jurisdiction)

	system := model.CourtSystem(req.CourtSystem)
	if !validCourtSystems[system] {
		return nil, kerrors.BadRequest("INVALID_COURT_SYSTEM",
			"court_system must be one of: federal, state, local, tribal, administrative")
	}
	if req.Jurisdiction == "" {
		return nil, kerrors.BadRequest("MISSING_JURISDICTION", "jurisdiction is required")
	}

	useFallback := true
	if req.UseFallback != nil {
		useFallback = *req.UseFallback
	}

	var methods []model.FallbackMethod
	for _, m := range req.FallbackMethods {
		methods = append(methods, model.FallbackMethod(m))
	}

	domainReq := &model.CourtDataRequest{
		CourtSystem:     system,
		Jurisdiction:    req.Jurisdiction,
		SearchCriteria:  req.SearchCriteria,
		DataTypes:       req.DataTypes,
		Priority:        req.Priority,
		Timeout:         time.Duration(req.TimeoutSeconds) * time.Second,
		UseFallback:     useFallback,
		FallbackMethods: methods,
	}

	resp := s.uc.SearchAllCourts(ctx, domainReq)
	return toSearchReply(resp), nil
}

// Report returns the aggregated performance metrics report.
func (s *CourtService) Report(ctx context.Context) (map[string]any, error) {
	s.logger.Debug("Report called")
	return s.uc.GetPerformanceReport(), nil
}

// Health probes all configured upstream sources and reports overall status.
func (s *CourtService) Health(ctx context.Context) (map[string]any, error) {
	s.logger.Debug("Health called")
	return s.uc.HealthCheck(ctx), nil
}

// CompleteManualEntry submits the data for a pending manual entry.
func (s *CourtService) CompleteManualEntry(ctx context.Context, trackingID string, req *CompleteRequest) (*CompleteReply, error) {
	s.logger.Infow("CompleteManualEntry called", "tracking_id", trackingID)

	result, err := s.manual.CompleteEntry(trackingID, req.Data)
	if err != nil {
		if errors.Is(err, biz.ErrEntryNotFound) {
			return nil, kerrors.NotFound("ENTRY_NOT_FOUND", err.Error())
		}
		s.logger.Errorw("failed to complete manual entry", "tracking_id", trackingID, "error", err)
		return nil, kerrors.InternalServer("COMPLETE_FAILED", "failed to complete manual entry")
	}

	return toCompleteReply(result), nil
}

// CompletePhoneVerification records the outcome of a phone verification.
func (s *CourtService) CompletePhoneVerification(ctx context.Context, verificationID string, req *CompleteRequest) (*CompleteReply, error) {
	s.logger.Infow("CompletePhoneVerification called", "verification_id", verificationID)

	result, err := s.phone.CompleteVerification(verificationID, req.Data)
	if err != nil {
		if errors.Is(err, biz.ErrEntryNotFound) {
			return nil, kerrors.NotFound("VERIFICATION_NOT_FOUND", err.Error())
		}
		s.logger.Errorw("failed to complete phone verification", "verification_id", verificationID, "error", err)
		return nil, kerrors.InternalServer("COMPLETE_FAILED", "failed to complete phone verification")
	}

	return toCompleteReply(result), nil
}

// Breakers reports circuit breaker state, local and mirrored.
func (s *CourtService) Breakers(ctx context.Context) (*BreakersReply, error) {
	reply := &BreakersReply{
		Local: s.breakers.Snapshot(),
	}

	if s.mirror != nil {
		mirrored, err := s.mirror.States(ctx)
		if err != nil {
			s.logger.Warnw("failed to read mirrored breaker states", "error", err)
		} else {
			reply.Mirrored = mirrored
		}
	}

	return reply, nil
}

func toSearchReply(resp *model.CourtAPIResponse) *SearchReply {
	reply := &SearchReply{
		Success:         resp.Success,
		CourtSystem:     string(resp.CourtSystem),
		Jurisdiction:    resp.Jurisdiction,
		DataSource:      resp.DataSource,
		ResponseTimeMS:  resp.ResponseTimeMS,
		Data:            make([]map[string]any, 0, len(resp.Data)),
		Metadata:        resp.Metadata,
		Errors:          resp.Errors,
		Warnings:        resp.Warnings,
		FallbackUsed:    resp.FallbackUsed,
		ConfidenceScore: resp.ConfidenceScore,
	}
	for _, rec := range resp.Data {
		reply.Data = append(reply.Data, rec.Normalize())
	}
	return reply
}

func toCompleteReply(result *model.FallbackResult) *CompleteReply {
	return &CompleteReply{
		Method:       string(result.Method),
		SourceType:   result.SourceType,
		Data:         result.Data,
		Confidence:   result.Confidence,
		Timestamp:    result.Timestamp,
		Verification: result.VerificationNeeded,
	}
}
