// Package vapi is a thin client for the telephony provider's REST API. Only
// the phone-number endpoints the console needs are implemented.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://api.vapi.ai"

// PhoneNumber is the provider's phone-number resource, trimmed to the fields
// we read. AssistantID is null at the provider when the number is unbound.
type PhoneNumber struct {
	ID          string  `json:"id"`
	Number      string  `json:"number"`
	AssistantID *string `json:"assistantId"`
}

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewFromEnv builds a client from VAPI_API_KEY and optional VAPI_BASE_URL.
func NewFromEnv() *Client {
	base := os.Getenv("VAPI_BASE_URL")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		BaseURL:    base,
		APIKey:     os.Getenv("VAPI_API_KEY"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// APIError is a non-2xx provider response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider API returned %d: %s", e.Status, e.Body)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	if out != nil {
		return json.Unmarshal(raw, out)
	}
	return nil
}

// GetPhoneNumber fetches the provider phone-number resource.
func (c *Client) GetPhoneNumber(ctx context.Context, numberID string) (*PhoneNumber, error) {
	var pn PhoneNumber
	if err := c.do(ctx, http.MethodGet, "/phone-number/"+numberID, nil, &pn); err != nil {
		return nil, err
	}
	return &pn, nil
}

// UpdatePhoneNumberAssistant PATCHes the number's assistantId. Pass nil to
// unbind: the provider stops routing inbound calls for the number.
func (c *Client) UpdatePhoneNumberAssistant(ctx context.Context, numberID string, assistantID *string) error {
	payload := map[string]*string{"assistantId": assistantID}
	return c.do(ctx, http.MethodPatch, "/phone-number/"+numberID, payload, nil)
}
