// Package model defines the domain value types shared across the
// integration layers: search requests, responses, case records, fallback
// results and circuit breaker state.
package model

import "time"

// CourtSystem identifies the class of court a request targets.
type CourtSystem string

const (
	CourtSystemFederal        CourtSystem = "federal"
	CourtSystemState          CourtSystem = "state"
	CourtSystemLocal          CourtSystem = "local"
	CourtSystemTribal         CourtSystem = "tribal"
	CourtSystemAdministrative CourtSystem = "administrative"
)

// FallbackMethod names one of the alternative data-collection strategies.
type FallbackMethod string

const (
	FallbackScraping          FallbackMethod = "scraping"
	FallbackManualEntry       FallbackMethod = "manual_entry"
	FallbackEmailParsing      FallbackMethod = "email_parsing"
	FallbackPDFExtraction     FallbackMethod = "pdf_extraction"
	FallbackPhoneVerification FallbackMethod = "phone_verification"
)

// DefaultFallbackOrder is the order collectors are attempted when the caller
// does not specify a preference. Phone verification is excluded because it
// requires an explicit request.
var DefaultFallbackOrder = []FallbackMethod{
	FallbackScraping,
	FallbackManualEntry,
	FallbackEmailParsing,
	FallbackPDFExtraction,
}

// CourtDataRequest is an immutable description of one search. It is built
// once by the caller and never mutated by the integration layers.
type CourtDataRequest struct {
	CourtSystem     CourtSystem       `json:"court_system"`
	Jurisdiction    string            `json:"jurisdiction"`
	SearchCriteria  map[string]string `json:"search_criteria"`
	DataTypes       []string          `json:"data_types,omitempty"`
	Priority        string            `json:"priority,omitempty"`
	Timeout         time.Duration     `json:"timeout,omitempty"`
	UseFallback     bool              `json:"use_fallback"`
	FallbackMethods []FallbackMethod  `json:"fallback_methods,omitempty"`
}

// Criterion returns a single search criterion, tolerating a nil map.
func (r *CourtDataRequest) Criterion(key string) string {
	if r.SearchCriteria == nil {
		return ""
	}
	return r.SearchCriteria[key]
}

// CourtAPIResponse is the result of one search attempt, produced by an
// adapter or by the orchestrator. Responses are built once and never
// patched; derived responses are new values.
type CourtAPIResponse struct {
	Success         bool           `json:"success"`
	CourtSystem     CourtSystem    `json:"court_system"`
	Jurisdiction    string         `json:"jurisdiction"`
	DataSource      string         `json:"data_source"`
	ResponseTimeMS  int64          `json:"response_time_ms"`
	Data            []CaseRecord   `json:"data"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Errors          []string       `json:"errors,omitempty"`
	Warnings        []string       `json:"warnings,omitempty"`
	FallbackUsed    bool           `json:"fallback_used"`
	ConfidenceScore float64        `json:"confidence_score"`
}

// Data source labels used in CourtAPIResponse.DataSource.
const (
	DataSourceFederal    = "federal_courts"
	DataSourceState      = "state_courts"
	DataSourceFallback   = "fallback_methods"
	DataSourceAggregated = "aggregated"
	DataSourceCache      = "cache"
)
