package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/ports/providers"
	"github.com/shopspring/decimal"
)

// Methods the provider serves through /v1/sources instead of checkout sessions.
var sourceMethods = map[string]bool{"gcash": true, "grab_pay": true}

// ProviderClient talks to the payment provider's REST API.
type ProviderClient struct {
	httpClient *http.Client
}

// NewProviderClient creates a client with a bounded timeout. A nil httpClient uses a default.
func NewProviderClient(httpClient *http.Client) *ProviderClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &ProviderClient{httpClient: httpClient}
}

var _ providers.CheckoutProvider = (*ProviderClient)(nil)

type envelope struct {
	Data struct {
		ID         string          `json:"id"`
		Attributes json.RawMessage `json:"attributes"`
	} `json:"data"`
}

type lineItem struct {
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Quantity int    `json:"quantity"`
}

// minorUnits converts 12.34 to 1234.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (c *ProviderClient) CreateCheckoutSession(ctx context.Context, p providers.CheckoutParams) (*providers.CheckoutResult, error) {
	method := strings.ToLower(strings.TrimSpace(p.Method))
	if sourceMethods[method] {
		return c.createSource(ctx, p, method)
	}

	attrs := map[string]any{
		"line_items": []lineItem{{
			Name:     p.Description,
			Amount:   minorUnits(p.Amount),
			Currency: p.Currency,
			Quantity: 1,
		}},
		"reference_number": p.ReferenceNo,
		"description":      p.Description,
		"success_url":      p.SuccessURL,
		"cancel_url":       p.CancelURL,
		"metadata":         map[string]string{"payment_id": p.PaymentID},
	}
	if method != "" {
		attrs["payment_method_types"] = []string{method}
	} else {
		attrs["payment_method_types"] = []string{"card", "gcash", "grab_pay", "paymaya"}
	}

	var out struct {
		CheckoutURL string `json:"checkout_url"`
	}
	id, err := c.post(ctx, p, "/v1/checkout_sessions", attrs, &out)
	if err != nil {
		return nil, err
	}
	return &providers.CheckoutResult{ProviderID: id, CheckoutURL: out.CheckoutURL}, nil
}

func (c *ProviderClient) createSource(ctx context.Context, p providers.CheckoutParams, method string) (*providers.CheckoutResult, error) {
	attrs := map[string]any{
		"amount":   minorUnits(p.Amount),
		"currency": p.Currency,
		"type":     method,
		"redirect": map[string]string{"success": p.SuccessURL, "failed": p.CancelURL},
		"metadata": map[string]string{"payment_id": p.PaymentID, "reference_number": p.ReferenceNo},
	}
	var out struct {
		Redirect struct {
			CheckoutURL string `json:"checkout_url"`
		} `json:"redirect"`
	}
	id, err := c.post(ctx, p, "/v1/sources", attrs, &out)
	if err != nil {
		return nil, err
	}
	return &providers.CheckoutResult{ProviderID: id, CheckoutURL: out.Redirect.CheckoutURL}, nil
}

// post sends {"data":{"attributes":attrs}} and decodes the response attributes into out.
func (c *ProviderClient) post(ctx context.Context, p providers.CheckoutParams, path string, attrs any, out any) (string, error) {
	body, err := json.Marshal(map[string]any{"data": map[string]any{"attributes": attrs}})
	if err != nil {
		return "", fmt.Errorf("failed to encode provider request: %w", err)
	}

	url := strings.TrimRight(p.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Idempotency-Key", "checkout-"+p.PaymentID)
	req.SetBasicAuth(p.SecretKey, "")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", apperrors.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: provider returned %d: %s", apperrors.ErrUpstream, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("%w: undecodable response: %v", apperrors.ErrUpstream, err)
	}
	if len(env.Data.Attributes) > 0 {
		if err := json.Unmarshal(env.Data.Attributes, out); err != nil {
			return "", fmt.Errorf("%w: undecodable attributes: %v", apperrors.ErrUpstream, err)
		}
	}
	if env.Data.ID == "" {
		return "", fmt.Errorf("%w: response carried no id", apperrors.ErrUpstream)
	}
	return env.Data.ID, nil
}
