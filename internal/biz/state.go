package biz

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"
	"CourtGate/pkg/courts"

	"github.com/go-kratos/kratos/v2/log"
)

// stateNames maps supported state jurisdiction codes to state names.
// State gateways are independent deployments, so each state carries its
// own circuit breaker key.
var stateNames = map[string]string{
	"CA": "California",
	"NY": "New York",
	"TX": "Texas",
	"FL": "Florida",
	"IL": "Illinois",
	"PA": "Pennsylvania",
	"OH": "Ohio",
	"GA": "Georgia",
	"NC": "North Carolina",
	"MI": "Michigan",
	"WA": "Washington",
	"MA": "Massachusetts",
}

// ParseStateCode validates a state jurisdiction code (case-insensitive)
// and returns the normalized code and state name.
func ParseStateCode(code string) (string, string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	name, ok := stateNames[normalized]
	return normalized, name, ok
}

// StateBreakerKey returns the per-state circuit breaker key, e.g.
// "state_courts_CA".
func StateBreakerKey(stateCode string) string {
	return "state_courts_" + stateCode
}

// StateAdapter searches state court systems through the state gateway.
type StateAdapter struct {
	client   CourtClient
	breakers *CircuitBreakerRegistry
	timeout  time.Duration
	logger   *log.Helper
}

// NewStateAdapter creates a state court adapter with its gateway client
// built from configuration. State gateways are unauthenticated.
func NewStateAdapter(c *conf.Courts_State, breakers *CircuitBreakerRegistry, logger log.Logger) (*StateAdapter, error) {
	if c == nil {
		return nil, fmt.Errorf("state courts configuration is required")
	}
	timeout := 30 * time.Second
	if c.Timeout != nil && c.Timeout.AsDuration() > 0 {
		timeout = c.Timeout.AsDuration()
	}
	client, err := courts.NewClient(c.BaseUrl, "", timeout, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create state gateway client: %w", err)
	}
	return &StateAdapter{
		client:   client,
		breakers: breakers,
		timeout:  timeout,
		logger:   log.NewHelper(logger),
	}, nil
}

// Name implements SourceAdapter.
func (a *StateAdapter) Name() string { return model.DataSourceState }

type stateSearchResponse struct {
	Cases []stateCaseDoc `json:"cases"`
}

type stateCaseDoc struct {
	CaseNumber string   `json:"case_number"`
	CaseName   string   `json:"case_name"`
	StateCode  string   `json:"state_code"`
	CourtLevel string   `json:"court_level"`
	County     string   `json:"county"`
	FilingDate string   `json:"filing_date"`
	CaseType   string   `json:"case_type"`
	Status     string   `json:"status"`
	Judge      string   `json:"judge"`
	Parties    []string `json:"parties"`
	Attorneys  []string `json:"attorneys"`
}

// Search implements SourceAdapter for state jurisdictions.
func (a *StateAdapter) Search(ctx context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
	start := time.Now()
	resp := &model.CourtAPIResponse{
		CourtSystem:  req.CourtSystem,
		Jurisdiction: req.Jurisdiction,
		DataSource:   model.DataSourceState,
		Data:         []model.CaseRecord{},
	}
	defer func() {
		resp.ResponseTimeMS = time.Since(start).Milliseconds()
	}()

	stateCode, stateName, ok := ParseStateCode(req.Jurisdiction)
	if !ok {
		resp.Errors = append(resp.Errors,
			fmt.Sprintf("unknown state jurisdiction %q", req.Jurisdiction))
		return resp
	}

	breakerKey := StateBreakerKey(stateCode)
	if a.breakers.IsOpen(breakerKey) {
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("circuit breaker open for %s, call skipped", breakerKey))
		return resp
	}

	callCtx, cancel := context.WithTimeout(ctx, searchTimeout(req, a.timeout))
	defer cancel()

	params := criteriaParams(req)
	params.Set("state", stateCode)

	var wire stateSearchResponse
	if err := a.client.Get(callCtx, "/cases/search", params, &wire); err != nil {
		a.breakers.RecordFailure(breakerKey)
		a.logger.Warnw("state court search failed",
			"state", stateCode,
			"error", err)
		resp.Errors = append(resp.Errors, err.Error())
		return resp
	}
	a.breakers.RecordSuccess(breakerKey)

	for _, doc := range wire.Cases {
		rec := &model.StateCase{
			CaseNumber: doc.CaseNumber,
			CaseName:   doc.CaseName,
			StateCode:  doc.StateCode,
			CourtLevel: doc.CourtLevel,
			County:     doc.County,
			FilingDate: parseFilingDate(doc.FilingDate),
			CaseType:   doc.CaseType,
			Status:     doc.Status,
			Judge:      doc.Judge,
			Parties:    doc.Parties,
			Attorneys:  doc.Attorneys,
		}
		if rec.StateCode == "" {
			rec.StateCode = stateCode
		}
		resp.Data = append(resp.Data, rec)
	}

	resp.Success = true
	resp.Metadata = map[string]any{
		"state_name": stateName,
		"case_count": len(resp.Data),
	}
	return resp
}

// Probe implements SourceAdapter with a single health check call.
func (a *StateAdapter) Probe(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// ProbeJurisdiction checks connectivity for one state jurisdiction.
func (a *StateAdapter) ProbeJurisdiction(ctx context.Context, stateCode string) error {
	code, _, ok := ParseStateCode(stateCode)
	if !ok {
		return fmt.Errorf("unknown state jurisdiction %q", stateCode)
	}
	params := url.Values{}
	params.Set("state", code)
	return a.client.Get(ctx, "/health", params, nil)
}
