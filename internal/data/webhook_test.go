package data

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CourtGate/internal/conf"
	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/durationpb"
)

func TestWebhookNotifierDeliversOpened(t *testing.T) {
	received := make(chan webhookEnvelope, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var env webhookEnvelope
		require.NoError(t, json.Unmarshal(body, &env))
		received <- env
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(&conf.Courts{
		Webhook: &conf.Courts_Webhook{Url: srv.URL, Timeout: durationpb.New(2 * time.Second)},
	}, log.DefaultLogger)

	n.NotifyOpened(context.Background(), &model.CircuitOpenedEvent{
		Service:  "federal_courts",
		Failures: 5,
		OpenedAt: time.Now(),
	})

	select {
	case env := <-received:
		assert.Equal(t, "circuit_opened", env.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestWebhookNotifierDeliversRecovered(t *testing.T) {
	received := make(chan webhookEnvelope, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var env webhookEnvelope
		_ = json.Unmarshal(body, &env)
		received <- env
	}))
	defer srv.Close()

	n := NewWebhookNotifier(&conf.Courts{
		Webhook: &conf.Courts_Webhook{Url: srv.URL},
	}, log.DefaultLogger)

	n.NotifyRecovered(context.Background(), &model.CircuitRecoveredEvent{
		Service:     "state_courts_CA",
		RecoveredAt: time.Now(),
		OpenFor:     5 * time.Minute,
	})

	select {
	case env := <-received:
		assert.Equal(t, "circuit_recovered", env.Event)
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestWebhookNotifierDisabledWithoutURL(t *testing.T) {
	n := NewWebhookNotifier(nil, log.DefaultLogger)

	// Must not panic or block; events are only logged.
	n.NotifyOpened(context.Background(), &model.CircuitOpenedEvent{Service: "federal_courts"})
	n.NotifyRecovered(context.Background(), &model.CircuitRecoveredEvent{Service: "federal_courts"})
}

func TestWebhookNotifierSwallowsReceiverErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(&conf.Courts{
		Webhook: &conf.Courts_Webhook{Url: srv.URL},
	}, log.DefaultLogger)

	// Receiver failure is logged, never propagated.
	n.NotifyOpened(context.Background(), &model.CircuitOpenedEvent{Service: "federal_courts"})
}
