package biz

import (
	"context"
	"fmt"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"
	"CourtGate/pkg/courts"

	"github.com/go-kratos/kratos/v2/log"
)

// BreakerKeyFederal is the circuit breaker key shared by all federal
// district queries: the upstream is one gateway regardless of district.
const BreakerKeyFederal = "federal_courts"

// federalDistricts maps PACER district codes to court names. Jurisdiction
// values outside this set are configuration errors.
var federalDistricts = map[string]string{
	"nysd": "Southern District of New York",
	"nyed": "Eastern District of New York",
	"cacd": "Central District of California",
	"cand": "Northern District of California",
	"txnd": "Northern District of Texas",
	"txsd": "Southern District of Texas",
	"ilnd": "Northern District of Illinois",
	"flsd": "Southern District of Florida",
	"flmd": "Middle District of Florida",
	"njd":  "District of New Jersey",
	"pand": "Eastern District of Pennsylvania",
	"mad":  "District of Massachusetts",
	"wawd": "Western District of Washington",
	"gand": "Northern District of Georgia",
	"dcd":  "District of Columbia",
}

// ParseFederalDistrict validates a federal jurisdiction code and returns
// the district's full court name.
func ParseFederalDistrict(code string) (string, bool) {
	name, ok := federalDistricts[code]
	return name, ok
}

// FederalAdapter searches federal district courts through the PACER-style
// gateway.
type FederalAdapter struct {
	client   CourtClient
	breakers *CircuitBreakerRegistry
	timeout  time.Duration
	logger   *log.Helper
}

// NewFederalAdapter creates a federal court adapter with its gateway
// client built from configuration.
func NewFederalAdapter(c *conf.Courts_Federal, breakers *CircuitBreakerRegistry, logger log.Logger) (*FederalAdapter, error) {
	if c == nil {
		return nil, fmt.Errorf("federal courts configuration is required")
	}
	timeout := 30 * time.Second
	if c.Timeout != nil && c.Timeout.AsDuration() > 0 {
		timeout = c.Timeout.AsDuration()
	}
	client, err := courts.NewClient(c.BaseUrl, c.ApiToken, timeout, c.Proxy)
	if err != nil {
		return nil, fmt.Errorf("failed to create federal gateway client: %w", err)
	}
	return &FederalAdapter{
		client:   client,
		breakers: breakers,
		timeout:  timeout,
		logger:   log.NewHelper(logger),
	}, nil
}

// Name implements SourceAdapter.
func (a *FederalAdapter) Name() string { return model.DataSourceFederal }

// federalSearchResponse is the gateway's wire shape for case searches.
type federalSearchResponse struct {
	Cases []federalCaseDoc `json:"cases"`
}

type federalCaseDoc struct {
	CaseNumber string   `json:"case_number"`
	CaseName   string   `json:"case_name"`
	District   string   `json:"district"`
	FilingDate string   `json:"filing_date"`
	CaseType   string   `json:"case_type"`
	Status     string   `json:"status"`
	Judge      string   `json:"judge"`
	Parties    []string `json:"parties"`
	Attorneys  []string `json:"attorneys"`
	Docket     []struct {
		Number      int    `json:"number"`
		Date        string `json:"date"`
		Description string `json:"description"`
	} `json:"docket_entries"`
}

// Search implements SourceAdapter. It checks the circuit breaker before
// calling upstream, records failures against it, and always stamps the
// wall-clock elapsed time.
func (a *FederalAdapter) Search(ctx context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse {
	start := time.Now()
	resp := &model.CourtAPIResponse{
		CourtSystem:  model.CourtSystemFederal,
		Jurisdiction: req.Jurisdiction,
		DataSource:   model.DataSourceFederal,
		Data:         []model.CaseRecord{},
	}
	defer func() {
		resp.ResponseTimeMS = time.Since(start).Milliseconds()
	}()

	district, ok := ParseFederalDistrict(req.Jurisdiction)
	if !ok {
		resp.Errors = append(resp.Errors,
			fmt.Sprintf("unknown federal district %q", req.Jurisdiction))
		return resp
	}

	if a.breakers.IsOpen(BreakerKeyFederal) {
		resp.Warnings = append(resp.Warnings,
			fmt.Sprintf("circuit breaker open for %s, call skipped", BreakerKeyFederal))
		return resp
	}

	callCtx, cancel := context.WithTimeout(ctx, searchTimeout(req, a.timeout))
	defer cancel()

	params := criteriaParams(req)
	params.Set("district", req.Jurisdiction)

	var wire federalSearchResponse
	if err := a.client.Get(callCtx, "/cases/search", params, &wire); err != nil {
		a.breakers.RecordFailure(BreakerKeyFederal)
		a.logger.Warnw("federal court search failed",
			"district", req.Jurisdiction,
			"error", err)
		resp.Errors = append(resp.Errors, err.Error())
		return resp
	}
	a.breakers.RecordSuccess(BreakerKeyFederal)

	for _, doc := range wire.Cases {
		rec := &model.FederalCase{
			CaseNumber: doc.CaseNumber,
			CaseName:   doc.CaseName,
			District:   doc.District,
			FilingDate: parseFilingDate(doc.FilingDate),
			CaseType:   doc.CaseType,
			Status:     doc.Status,
			Judge:      doc.Judge,
			Parties:    doc.Parties,
			Attorneys:  doc.Attorneys,
		}
		if rec.District == "" {
			rec.District = req.Jurisdiction
		}
		for _, d := range doc.Docket {
			rec.DocketEntries = append(rec.DocketEntries, model.DocketEntry{
				Number:      d.Number,
				Date:        parseFilingDate(d.Date),
				Description: d.Description,
			})
		}
		resp.Data = append(resp.Data, rec)
	}

	resp.Success = true
	resp.Metadata = map[string]any{
		"district_name": district,
		"case_count":    len(resp.Data),
	}
	return resp
}

// Probe implements SourceAdapter with a single health check call.
func (a *FederalAdapter) Probe(ctx context.Context) error {
	return a.client.Ping(ctx)
}
