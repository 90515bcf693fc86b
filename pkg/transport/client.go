// Package transport sends outbound messages through the SMS/voice provider's
// webhook API. The engine never talks to the provider directly.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/recovery-cli/internal/resilience"
)

// Client posts messages to the provider webhook. Transient provider failures
// are retried with backoff; a provider that keeps failing trips the breaker.
type Client struct {
	url     string
	token   string
	http    *http.Client
	breaker *resilience.Breaker
	retry   resilience.RetryConfig
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg resilience.RetryConfig) Option {
	return func(c *Client) { c.retry = cfg }
}

// NewClient creates a transport client.
func NewClient(url, token string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		url:     url,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		breaker: resilience.NewBreaker(resilience.CircuitConfig{}),
		retry:   resilience.DefaultRetryConfig(),
	}
	c.retry.OnRetry = resilience.RetryLogger("transport", "send_message")
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type sendRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error,omitempty"`
}

// SendMessage delivers one message and returns the provider message id.
func (c *Client) SendMessage(ctx context.Context, phone, text string) (string, error) {
	return resilience.ExecuteVal(ctx, c.breaker, func(ctx context.Context) (string, error) {
		return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (string, error) {
			return c.send(ctx, phone, text)
		})
	})
}

func (c *Client) send(ctx context.Context, phone, text string) (string, error) {
	payload, err := json.Marshal(sendRequest{To: phone, Body: text})
	if err != nil {
		return "", eris.Wrap(err, "transport: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", eris.Wrap(err, "transport: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "transport: send message")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode >= 300 {
		err := eris.New(fmt.Sprintf("transport: provider returned %d: %s", resp.StatusCode, string(body)))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return "", resilience.NewTransientError(err, resp.StatusCode)
		}
		return "", err
	}

	var out sendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", eris.Wrap(err, "transport: decode response")
	}
	if out.Error != "" {
		return "", eris.New("transport: provider error: " + out.Error)
	}
	if out.MessageID == "" {
		return "", eris.New("transport: provider returned no message id")
	}
	return out.MessageID, nil
}
