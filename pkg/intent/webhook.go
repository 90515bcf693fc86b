package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recovery-cli/internal/model"
	"github.com/sells-group/recovery-cli/internal/resilience"
)

// Webhook defers classification to an external service. Unknown labels from
// the service collapse to the unknown intent.
type Webhook struct {
	url   string
	http  *http.Client
	retry resilience.RetryConfig
}

// NewWebhook creates a webhook classifier.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = 2
	retry.OnRetry = resilience.RetryLogger("intent", "classify")
	return &Webhook{
		url:   url,
		http:  &http.Client{Timeout: timeout},
		retry: retry,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Intent string `json:"intent"`
}

// ClassifyIntent posts the text and returns the canonicalized label.
func (w *Webhook) ClassifyIntent(ctx context.Context, text string) (model.Intent, error) {
	return resilience.DoVal(ctx, w.retry, func(ctx context.Context) (model.Intent, error) {
		return w.classify(ctx, text)
	})
}

func (w *Webhook) classify(ctx context.Context, text string) (model.Intent, error) {
	payload, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return model.IntentUnknown, eris.Wrap(err, "intent: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return model.IntentUnknown, eris.Wrap(err, "intent: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return model.IntentUnknown, eris.Wrap(err, "intent: classify")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 300 {
		err := eris.New(fmt.Sprintf("intent: classifier returned %d", resp.StatusCode))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return model.IntentUnknown, resilience.NewTransientError(err, resp.StatusCode)
		}
		return model.IntentUnknown, err
	}

	var out classifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return model.IntentUnknown, eris.Wrap(err, "intent: decode response")
	}
	return model.Intent(out.Intent).Canonical(), nil
}
