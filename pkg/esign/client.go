// Package esign generates recovery contracts through the e-signature
// provider and decodes its lifecycle webhooks.
package esign

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

// ContractRequest describes the contract to generate for one lead.
type ContractRequest struct {
	LeadID       string  `json:"lead_id"`
	OwnerName    string  `json:"owner_name"`
	Email        string  `json:"email,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	AmountOwed   float64 `json:"amount_owed"`
	FeeRate      float64 `json:"fee_rate"`
	TemplateSlug string  `json:"template_slug,omitempty"`
}

// Contract is the provider's view of a generated contract envelope.
type Contract struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// Client talks to the e-signature provider.
type Client struct {
	url   string
	token string
	http  *http.Client
	retry resilience.RetryConfig
}

// NewClient creates an esign client.
func NewClient(url, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("esign", "generate_contract")
	return &Client{
		url:   url,
		token: token,
		http:  &http.Client{Timeout: timeout},
		retry: retry,
	}
}

// GenerateContract creates a contract envelope and returns it. Generation is
// idempotent on the provider side per lead id.
func (c *Client) GenerateContract(ctx context.Context, req ContractRequest) (*Contract, error) {
	if req.LeadID == "" {
		return nil, eris.New("esign: lead id required")
	}
	return resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*Contract, error) {
		return c.generate(ctx, req)
	})
}

func (c *Client) generate(ctx context.Context, req ContractRequest) (*Contract, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "esign: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/contracts", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "esign: build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "esign: generate contract")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode >= 300 {
		err := eris.New(fmt.Sprintf("esign: provider returned %d: %s", resp.StatusCode, string(body)))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var contract Contract
	if err := json.Unmarshal(body, &contract); err != nil {
		return nil, eris.Wrap(err, "esign: decode response")
	}
	return &contract, nil
}

// WebhookEvent is a lifecycle notification posted by the provider.
type WebhookEvent struct {
	ContractID string `json:"contract_id"`
	LeadID     string `json:"lead_id"`
	Event      string `json:"event"`
	OccurredAt string `json:"occurred_at"`
}

// DecodeWebhook parses a provider webhook body.
func DecodeWebhook(r io.Reader) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&ev); err != nil {
		return nil, eris.Wrap(err, "esign: decode webhook")
	}
	if ev.LeadID == "" || ev.Event == "" {
		return nil, eris.New("esign: webhook missing lead_id or event")
	}
	return &ev, nil
}
