package biz

import (
	"context"
	"net/url"
	"time"

	"CourtGate/internal/model"
)

// CourtClient is the transport contract adapters use against an upstream
// court gateway. It is satisfied by *courts.Client.
type CourtClient interface {
	Get(ctx context.Context, path string, params url.Values, out any) error
	Ping(ctx context.Context) error
}

// SourceAdapter translates a CourtDataRequest into one upstream court
// system's query. Search never returns an error: every failure mode is
// encoded in the response (success flag, error and warning strings).
type SourceAdapter interface {
	Name() string
	Search(ctx context.Context, req *model.CourtDataRequest) *model.CourtAPIResponse
	Probe(ctx context.Context) error
}

// searchTimeout picks the effective upstream timeout for one request.
func searchTimeout(req *model.CourtDataRequest, fallback time.Duration) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if fallback > 0 {
		return fallback
	}
	return 30 * time.Second
}

// criteriaParams copies supported search criteria into query parameters.
func criteriaParams(req *model.CourtDataRequest) url.Values {
	params := url.Values{}
	for _, key := range []string{"case_number", "case_name", "party_name", "date_from", "date_to"} {
		if v := req.Criterion(key); v != "" {
			params.Set(key, v)
		}
	}
	return params
}

// parseFilingDate accepts the date formats the gateways are known to emit.
func parseFilingDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
