// Package payment is the narrow client for the external payment gateway.
// The gateway owns idempotency, webhooks and reconciliation; this client
// only confirms a charge and reports a receipt.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"
)

// ErrUnavailable means the gateway timed out or answered with a failure.
var ErrUnavailable = errors.New("payment gateway unavailable")

// Receipt is the gateway's confirmation of a charge.
type Receipt struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount"`
	Status      string `json:"status"`
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// DefaultClient is wired at startup; nil means payments are not configured.
var DefaultClient *Client

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

func Init() {
	url := os.Getenv("PAYMENT_API_URL")
	if url == "" {
		return
	}
	DefaultClient = NewClient(url, os.Getenv("PAYMENT_API_KEY"), 10*time.Second)
}

// Cents converts a price in currency units to integer cents. Prices like
// 19.99 have no exact float64 representation, so truncation would undercharge.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type chargeRequest struct {
	AmountCents int64  `json:"amount"`
	Reference   string `json:"reference"`
}

// Confirm charges amountCents against the gateway, tagged with reference so
// retries land on the same charge gateway-side.
func (c *Client) Confirm(ctx context.Context, amountCents int64, reference string) (*Receipt, error) {
	payload, err := json.Marshal(chargeRequest{AmountCents: amountCents, Reference: reference})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/charges", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: gateway returned %d", ErrUnavailable, resp.StatusCode)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("%w: bad receipt: %v", ErrUnavailable, err)
	}
	return &receipt, nil
}
