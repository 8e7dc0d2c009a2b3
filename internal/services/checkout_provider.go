package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPCheckoutProvider talks to the hosted checkout gateway over its REST
// API. The gateway owns the card flow; this service only opens sessions and
// polls their status.
type HTTPCheckoutProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPCheckoutProvider(baseURL, apiKey string) *HTTPCheckoutProvider {
	return &HTTPCheckoutProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type checkoutSessionPayload struct {
	ID       string  `json:"id"`
	URL      string  `json:"url"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (p *HTTPCheckoutProvider) CreateSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	body, err := json.Marshal(map[string]interface{}{
		"client_reference_id": params.UserID,
		"description":         params.Description,
		"amount":              params.Amount,
		"currency":            params.Currency,
		"success_url":         params.SuccessURL,
		"cancel_url":          params.CancelURL,
		"metadata": map[string]interface{}{
			"level_id": params.LevelID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session request: %w", err)
	}

	payload, err := p.do(ctx, http.MethodPost, "/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		ID:       payload.ID,
		URL:      payload.URL,
		Paid:     payload.Status == "paid",
		Amount:   payload.Amount,
		Currency: payload.Currency,
	}, nil
}

func (p *HTTPCheckoutProvider) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	payload, err := p.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+sessionID, nil)
	if err != nil {
		return nil, err
	}

	return &CheckoutSession{
		ID:       payload.ID,
		URL:      payload.URL,
		Paid:     payload.Status == "paid",
		Amount:   payload.Amount,
		Currency: payload.Currency,
	}, nil
}

func (p *HTTPCheckoutProvider) do(ctx context.Context, method, path string, body *bytes.Reader) (*checkoutSessionPayload, error) {
	var reqBody io.Reader = http.NoBody
	if body != nil {
		reqBody = body
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var payload checkoutSessionPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}
	return &payload, nil
}
