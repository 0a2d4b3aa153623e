package biz

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	ltpdf "github.com/ledongthuc/pdf"
	rscpdf "rsc.io/pdf"
)

// PDFExtractCollector extracts case fields from a court-filing PDF. Text
// extraction tries the primary library first and falls back to the
// secondary one when the primary fails; both failing yields a
// zero-confidence result, never a crash.
type PDFExtractCollector struct {
	canExtract bool
	logger     *log.Helper

	// extractPrimary / extractSecondary are swappable in tests.
	extractPrimary   func(path string) (string, error)
	extractSecondary func(path string) (string, error)
}

// NewPDFExtractCollector creates the PDF extraction collector.
func NewPDFExtractCollector(c *conf.Fallback, logger log.Logger) *PDFExtractCollector {
	canExtract := true
	if c != nil {
		canExtract = c.CanExtractPdf
	}
	return &PDFExtractCollector{
		canExtract:       canExtract,
		logger:           log.NewHelper(logger),
		extractPrimary:   extractTextPrimary,
		extractSecondary: extractTextSecondary,
	}
}

// Method implements Collector.
func (p *PDFExtractCollector) Method() model.FallbackMethod { return model.FallbackPDFExtraction }

// Collect implements Collector. The PDF location is carried in the
// request's search criteria under "pdf_path".
func (p *PDFExtractCollector) Collect(_ context.Context, req *model.CourtDataRequest) *model.FallbackResult {
	result := &model.FallbackResult{
		Method:     model.FallbackPDFExtraction,
		SourceType: "pdf_extraction",
		Timestamp:  time.Now(),
	}

	if !p.canExtract {
		result.Errors = append(result.Errors, "pdf extraction library not available")
		return result
	}

	path := req.Criterion("pdf_path")
	if path == "" {
		result.Errors = append(result.Errors, "no pdf path provided in request")
		return result
	}

	text, err := p.extractPrimary(path)
	if err != nil {
		p.logger.Warnw("primary pdf extraction failed, trying secondary",
			"path", path,
			"error", err)
		var secondaryErr error
		text, secondaryErr = p.extractSecondary(path)
		if secondaryErr != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("primary extraction failed: %v", err),
				fmt.Sprintf("secondary extraction failed: %v", secondaryErr))
			return result
		}
	}

	fields, fraction := ExtractCaseFields(text)
	result.Data = fields
	result.Confidence = fraction

	p.logger.Debugw("pdf extraction fallback completed",
		"path", path,
		"fields_matched", len(fields),
		"confidence", result.Confidence)
	return result
}

func extractTextPrimary(path string) (string, error) {
	f, r, err := ltpdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// extractTextSecondary uses the older reader, which panics on malformed
// files; the panic is converted to an error here.
func extractTextSecondary(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf reader panic: %v", r)
		}
	}()

	r, err := rscpdf.Open(path)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, t := range page.Content().Text {
			sb.WriteString(t.S)
			sb.WriteString(" ")
		}
	}
	return sb.String(), nil
}
