package biz

import (
	"context"
	"fmt"
	"time"

	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
)

// Collector is one fallback data-collection strategy. Collect never
// returns an error: expected failure modes (missing permission, missing
// library, nothing found) are encoded as a zero-confidence result with
// explanatory errors.
type Collector interface {
	Method() model.FallbackMethod
	Collect(ctx context.Context, req *model.CourtDataRequest) *model.FallbackResult
}

// FallbackCoordinator runs fallback collectors in order when the primary
// adapter path fails or comes back empty.
type FallbackCoordinator struct {
	collectors map[model.FallbackMethod]Collector
	logger     *log.Helper
}

// NewFallbackCoordinator wires the five collectors into a coordinator.
func NewFallbackCoordinator(
	scrape *ScrapeCollector,
	manual *ManualEntryCollector,
	email *EmailParseCollector,
	pdf *PDFExtractCollector,
	phone *PhoneVerificationCollector,
	logger log.Logger,
) *FallbackCoordinator {
	return &FallbackCoordinator{
		collectors: map[model.FallbackMethod]Collector{
			model.FallbackScraping:          scrape,
			model.FallbackManualEntry:       manual,
			model.FallbackEmailParsing:      email,
			model.FallbackPDFExtraction:     pdf,
			model.FallbackPhoneVerification: phone,
		},
		logger: log.NewHelper(logger),
	}
}

// CollectAll attempts fallback methods in the request's preferred order
// (default order when unspecified). Phone verification is skipped unless
// the request names it explicitly. Every attempted result is returned,
// including zero-confidence failures, so callers can see why each method
// failed. A panicking collector is recorded as a failed result and does
// not abort the remaining methods.
func (f *FallbackCoordinator) CollectAll(ctx context.Context, req *model.CourtDataRequest) []*model.FallbackResult {
	order := req.FallbackMethods
	if len(order) == 0 {
		order = model.DefaultFallbackOrder
	}

	explicit := make(map[model.FallbackMethod]bool, len(req.FallbackMethods))
	for _, m := range req.FallbackMethods {
		explicit[m] = true
	}

	results := make([]*model.FallbackResult, 0, len(order))
	for _, method := range order {
		collector, ok := f.collectors[method]
		if !ok {
			results = append(results, &model.FallbackResult{
				Method:    method,
				Timestamp: time.Now(),
				Errors:    []string{fmt.Sprintf("unknown fallback method %q", method)},
			})
			continue
		}
		if method == model.FallbackPhoneVerification && !explicit[method] {
			continue
		}

		results = append(results, f.collect(ctx, collector, req))
	}
	return results
}

func (f *FallbackCoordinator) collect(ctx context.Context, collector Collector, req *model.CourtDataRequest) (result *model.FallbackResult) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Errorw("fallback collector panicked",
				"method", collector.Method(),
				"panic", r)
			result = &model.FallbackResult{
				Method:    collector.Method(),
				Timestamp: time.Now(),
				Errors:    []string{fmt.Sprintf("collector panic: %v", r)},
			}
		}
	}()

	result = collector.Collect(ctx, req)
	f.logger.Debugw("fallback method attempted",
		"method", collector.Method(),
		"confidence", result.Confidence,
		"errors", len(result.Errors))
	return result
}

// BestResult selects the highest-confidence result. Ties are broken by
// first-encountered order.
func BestResult(results []*model.FallbackResult) *model.FallbackResult {
	var best *model.FallbackResult
	for _, r := range results {
		if r == nil {
			continue
		}
		if best == nil || r.Confidence > best.Confidence {
			best = r
		}
	}
	return best
}

// CasesFromResults converts fallback results carrying case data into
// generic case records for aggregation. Zero-confidence results and
// results without any case identity contribute nothing.
func CasesFromResults(results []*model.FallbackResult, jurisdiction string) []model.CaseRecord {
	var out []model.CaseRecord
	for _, r := range results {
		if r == nil || r.Confidence <= 0 || len(r.Data) == 0 {
			continue
		}
		if _, ok := r.Data["case_number"]; !ok {
			continue
		}
		fields := make(map[string]any, len(r.Data)+3)
		for k, v := range r.Data {
			fields[k] = v
		}
		fields["jurisdiction"] = jurisdiction
		fields["source_method"] = string(r.Method)
		fields["source_confidence"] = r.Confidence
		out = append(out, &model.GenericCase{Fields: fields})
	}
	return out
}

// Probe reports whether the fallback subsystem is serviceable: it is
// healthy as long as its collectors are wired.
func (f *FallbackCoordinator) Probe(_ context.Context) error {
	if len(f.collectors) == 0 {
		return fmt.Errorf("no fallback collectors configured")
	}
	return nil
}
