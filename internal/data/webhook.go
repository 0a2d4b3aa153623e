package data

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
)

const defaultWebhookTimeout = 5 * time.Second

// WebhookNotifier implements biz.BreakerNotifier by POSTing breaker events
// to a configured URL. When no URL is configured events are only logged, so
// the service runs fine without a webhook receiver.
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *log.Helper
}

func NewWebhookNotifier(c *conf.Courts, logger log.Logger) *WebhookNotifier {
	url := ""
	timeout := defaultWebhookTimeout
	if c != nil && c.Webhook != nil {
		url = c.Webhook.Url
		if c.Webhook.Timeout != nil && c.Webhook.Timeout.AsDuration() > 0 {
			timeout = c.Webhook.Timeout.AsDuration()
		}
	}

	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: log.NewHelper(logger),
	}
}

// NotifyOpened delivers a circuit-opened event.
func (s *WebhookNotifier) NotifyOpened(ctx context.Context, event *model.CircuitOpenedEvent) {
	if s.url == "" {
		s.logger.Infow("circuit opened (webhook disabled)",
			"service", event.Service,
			"failures", event.Failures,
			"reset_time", event.ResetTime)
		return
	}

	s.deliver(ctx, "circuit_opened", event,
		"service", event.Service,
		"failures", event.Failures)
}

// NotifyRecovered delivers a circuit-recovered event.
func (s *WebhookNotifier) NotifyRecovered(ctx context.Context, event *model.CircuitRecoveredEvent) {
	if s.url == "" {
		s.logger.Infow("circuit recovered (webhook disabled)",
			"service", event.Service,
			"open_for", event.OpenFor)
		return
	}

	s.deliver(ctx, "circuit_recovered", event,
		"service", event.Service,
		"open_for", event.OpenFor)
}

type webhookEnvelope struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// deliver POSTs one event. Failures are logged, never propagated; breaker
// transitions must not depend on the receiver being up.
func (s *WebhookNotifier) deliver(ctx context.Context, eventType string, payload any, kvs ...any) {
	body, err := json.Marshal(webhookEnvelope{
		Event:     eventType,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Errorw("failed to marshal webhook payload", "event", eventType, "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		s.logger.Errorw("failed to build webhook request", "event", eventType, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warnw(append([]any{"webhook delivery failed",
			"event", eventType, "error", err}, kvs...)...)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.Warnw(append([]any{"webhook receiver rejected event",
			"event", eventType, "status", resp.StatusCode}, kvs...)...)
		return
	}

	s.logger.Debugw(append([]any{"webhook delivered",
		"event", eventType}, kvs...)...)
}
