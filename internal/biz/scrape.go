package biz

import (
	"context"
	"fmt"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/chromedp/chromedp"
	"github.com/go-kratos/kratos/v2/log"
)

// ScrapeCollector collects case data by driving a headless browser against
// a court's public docket page. Scraping is default-deny: a court must be
// explicitly allow-listed and have a configured target URL, and the
// deployment must have the browser capability enabled.
type ScrapeCollector struct {
	allowed   map[string]bool
	targets   map[string]string
	canScrape bool
	timeout   time.Duration
	logger    *log.Helper

	// fetch is swappable in tests to avoid launching a browser.
	fetch func(ctx context.Context, url string) (string, error)
}

// NewScrapeCollector creates the scraping collector from configuration.
func NewScrapeCollector(c *conf.Fallback, logger log.Logger) *ScrapeCollector {
	sc := &ScrapeCollector{
		allowed: make(map[string]bool),
		targets: make(map[string]string),
		timeout: 45 * time.Second,
		logger:  log.NewHelper(logger),
	}
	if c != nil {
		for _, id := range c.ScrapingAllowed {
			sc.allowed[id] = true
		}
		for id, u := range c.ScrapingTargets {
			sc.targets[id] = u
		}
		sc.canScrape = c.CanScrape
		if c.ScrapeTimeout != nil && c.ScrapeTimeout.AsDuration() > 0 {
			sc.timeout = c.ScrapeTimeout.AsDuration()
		}
	}
	sc.fetch = sc.fetchWithBrowser
	return sc
}

// Method implements Collector.
func (s *ScrapeCollector) Method() model.FallbackMethod { return model.FallbackScraping }

// Collect implements Collector.
func (s *ScrapeCollector) Collect(ctx context.Context, req *model.CourtDataRequest) *model.FallbackResult {
	result := &model.FallbackResult{
		Method:     model.FallbackScraping,
		SourceType: "web_scraping",
		Timestamp:  time.Now(),
	}

	courtID := req.Criterion("court_id")
	if courtID == "" {
		courtID = req.Jurisdiction
	}

	if !s.canScrape {
		result.Errors = append(result.Errors, "scraping capability not available in this deployment")
		return result
	}
	if !s.allowed[courtID] {
		result.Errors = append(result.Errors,
			fmt.Sprintf("scraping permission not granted for court %q", courtID))
		return result
	}
	target, ok := s.targets[courtID]
	if !ok {
		result.Errors = append(result.Errors,
			fmt.Sprintf("no scraping target configured for court %q", courtID))
		return result
	}

	scrapeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.fetch(scrapeCtx, target)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("scrape failed: %v", err))
		return result
	}

	fields, fraction := ExtractCaseFields(text)
	result.Data = fields
	result.Confidence = fraction
	// Scraped data always needs human verification before use.
	result.VerificationNeeded = true

	s.logger.Infow("scraping fallback completed",
		"court_id", courtID,
		"fields_matched", len(fields),
		"confidence", result.Confidence)
	return result
}

// fetchWithBrowser loads the page in headless Chrome and returns the
// rendered body text.
func (s *ScrapeCollector) fetchWithBrowser(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	return text, nil
}
