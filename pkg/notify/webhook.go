// Package notify posts fire-and-forget event notifications (golden-match
// promotions, approval requests) to a human-visible webhook. Delivery
// failures are logged and dropped; notifications never gate engine progress.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Event is one notification payload.
type Event struct {
	Event     string         `json:"event"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Webhook delivers events over HTTP. A Webhook with an empty URL is a no-op,
// so callers never need to nil-check.
type Webhook struct {
	url  string
	http *http.Client
	log  *zap.Logger
}

// NewWebhook creates a notifier. An empty url disables delivery.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  zap.L().With(zap.String("component", "notify")),
	}
}

// Notify sends one event asynchronously and returns immediately.
func (w *Webhook) Notify(event string, details map[string]any) {
	if w.url == "" {
		return
	}
	ev := Event{Event: event, Details: details, Timestamp: time.Now().UTC()}
	go w.deliver(ev)
}

func (w *Webhook) deliver(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		w.log.Error("marshal notification", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		w.log.Error("build notification request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		w.log.Warn("notification delivery failed",
			zap.String("event", ev.Event),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 300 {
		w.log.Warn("notification rejected",
			zap.String("event", ev.Event),
			zap.Int("status", resp.StatusCode),
		)
	}
}
