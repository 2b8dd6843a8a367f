// Package notify posts operational lifecycle events to an optional
// webhook. Failures are logged and swallowed; the bot never blocks on
// the notifier.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const requestTimeout = 10 * time.Second

// Notifier publishes lifecycle events
type Notifier interface {
	Notify(ctx context.Context, event, detail string)
}

// Webhook posts events as JSON to a configured URL
type Webhook struct {
	logger *slog.Logger
	url    string
	http   *http.Client
}

var _ Notifier = (*Webhook)(nil)

func NewWebhook(logger *slog.Logger, url string) *Webhook {
	return &Webhook{
		logger: logger,
		url:    url,
		http:   &http.Client{Timeout: requestTimeout},
	}
}

type payload struct {
	Event  string    `json:"event"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

func (w *Webhook) Notify(ctx context.Context, event, detail string) {
	body, err := json.Marshal(payload{Event: event, Detail: detail, At: time.Now().UTC()})
	if err != nil {
		w.logger.Error("webhook payload marshal failed", "event", event, "error", err)
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.logger.Error("webhook request failed", "event", event, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		w.logger.Warn("webhook delivery failed", "event", event, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		w.logger.Warn("webhook delivery rejected", "event", event, "error", fmt.Errorf("status %d", resp.StatusCode))
	}
}

// Nop discards every event. Used when no webhook is configured.
type Nop struct{}

var _ Notifier = Nop{}

func (Nop) Notify(context.Context, string, string) {}
