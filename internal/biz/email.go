package biz

import (
	"context"
	"time"

	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
)

// EmailParseCollector extracts case fields from raw email text (for
// example a clerk's notification email forwarded into the system) using
// the fixed pattern set. It never fails hard: an unmatched field is simply
// absent and lowers the confidence fraction.
type EmailParseCollector struct {
	logger *log.Helper
}

// NewEmailParseCollector creates the email parsing collector.
func NewEmailParseCollector(logger log.Logger) *EmailParseCollector {
	return &EmailParseCollector{logger: log.NewHelper(logger)}
}

// Method implements Collector.
func (e *EmailParseCollector) Method() model.FallbackMethod { return model.FallbackEmailParsing }

// Collect implements Collector. The email body is carried in the request's
// search criteria under "email_text".
func (e *EmailParseCollector) Collect(_ context.Context, req *model.CourtDataRequest) *model.FallbackResult {
	result := &model.FallbackResult{
		Method:     model.FallbackEmailParsing,
		SourceType: "email_parsing",
		Timestamp:  time.Now(),
	}

	text := req.Criterion("email_text")
	if text == "" {
		result.Errors = append(result.Errors, "no email text provided in request")
		return result
	}

	fields, fraction := ExtractCaseFields(text)
	result.Data = fields
	result.Confidence = fraction

	e.logger.Debugw("email parsing fallback completed",
		"fields_matched", len(fields),
		"confidence", result.Confidence)
	return result
}
