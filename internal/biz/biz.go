// Package biz contains business logic layer implementations.
// This layer holds the core integration rules and domain orchestration.
package biz

import (
	"CourtGate/internal/data"

	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewCircuitBreakerRegistry,
	NewPerformanceMetrics,
	NewFederalAdapter,
	NewStateAdapter,
	NewScrapeCollector,
	NewManualEntryCollector,
	NewEmailParseCollector,
	NewPDFExtractCollector,
	NewPhoneVerificationCollector,
	NewFallbackCoordinator,
	NewCourtIntegrationUsecase,
	// Import data layer providers
	data.NewResponseCache,
	data.NewRequestAuditor,
	data.NewContactDirectory,
	data.NewWebhookNotifier,
	data.NewBreakerMirror,
	// Bind adapter and data layer implementations to biz interfaces
	wire.Bind(new(SourceAdapter), new(*FederalAdapter)),
	wire.Bind(new(StateSource), new(*StateAdapter)),
	wire.Bind(new(ResponseCache), new(*data.ResponseCache)),
	wire.Bind(new(RequestAuditor), new(*data.RequestAuditorImpl)),
	wire.Bind(new(ContactDirectory), new(*data.ContactDirectory)),
	wire.Bind(new(BreakerNotifier), new(*data.WebhookNotifier)),
	wire.Bind(new(BreakerMirror), new(*data.RedisBreakerMirror)),
)
