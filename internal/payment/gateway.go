package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultGatewayBaseURL = "https://api.razorpay.com/v1"

// GatewayOrder is the order object issued by the gateway before payment.
// Amount is in the currency's smallest subunit (paise for INR).
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// GatewayClient creates orders against the payment gateway REST API using
// key-id/key-secret basic auth.
type GatewayClient struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

// NewGatewayClient returns a client for the hosted gateway API.
func NewGatewayClient(keyID, keySecret string) *GatewayClient {
	return &GatewayClient{
		keyID:      keyID,
		keySecret:  keySecret,
		baseURL:    defaultGatewayBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewGatewayClientWithBaseURL overrides the API endpoint; used in tests.
func NewGatewayClientWithBaseURL(keyID, keySecret, baseURL string) *GatewayClient {
	c := NewGatewayClient(keyID, keySecret)
	c.baseURL = baseURL
	return c
}

// Configured reports whether gateway credentials are present.
func (c *GatewayClient) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

type createOrderBody struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture bool   `json:"payment_capture"`
}

// CreateOrder registers an order with the gateway ahead of checkout. amount is
// the display-unit decimal total; the gateway API takes subunits, so it is
// multiplied by 100 and rounded. currency defaults to INR.
func (c *GatewayClient) CreateOrder(ctx context.Context, amount float64, currency, receipt string) (*GatewayOrder, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("gateway client not configured")
	}
	if currency == "" {
		currency = "INR"
	}

	body, err := json.Marshal(createOrderBody{
		Amount:         int64(amount*100 + 0.5),
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a bounded amount for the error message; no secrets in here
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, msg)
	}

	var order GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode gateway order: %w", err)
	}
	return &order, nil
}
