// Package sms is a client for an Africa's Talking-compatible SMS gateway.
package sms

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds the SMS gateway credentials and endpoint.
type Config struct {
	Username string
	APIKey   string
	BaseURL  string // e.g. https://api.africastalking.com
	SenderID string // optional short code / alphanumeric sender
}

// Client sends SMS messages through the gateway.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a new SMS client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// response mirrors the gateway's JSON payload. Only the per-recipient status
// is inspected.
type response struct {
	SMSMessageData struct {
		Recipients []struct {
			Number string `json:"number"`
			Status string `json:"status"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Send sends message to the given recipients. The boolean reports whether
// the gateway accepted the message for the first recipient; a non-nil error
// means the request itself failed (network, bad response body) as opposed to
// the gateway rejecting the send.
func (c *Client) Send(message string, recipients []string) (bool, error) {
	// Sandbox credentials without an API key log-and-succeed so the rest of
	// the stack can run without a gateway account.
	if c.cfg.Username == "sandbox" && c.cfg.APIKey == "" {
		log.Printf("[Sandbox SMS] To=%s | Msg=%s", strings.Join(recipients, ","), message)
		return true, nil
	}

	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("to", strings.Join(recipients, ","))
	form.Set("message", message)
	if c.cfg.SenderID != "" {
		form.Set("from", c.cfg.SenderID)
	}

	req, err := http.NewRequest(http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/version1/messaging",
		strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("failed to build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("SMS request failed: %w", err)
	}
	defer resp.Body.Close()

	// A 5xx is a gateway outage and therefore retryable; a 4xx is the
	// gateway refusing the request (bad credentials, malformed send) and is
	// final no matter what the body says.
	if resp.StatusCode >= http.StatusInternalServerError {
		return false, fmt.Errorf("SMS gateway returned %s", resp.Status)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return false, nil
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("failed to decode SMS response: %w", err)
	}

	rs := parsed.SMSMessageData.Recipients
	if len(rs) == 0 {
		// The gateway answered but accepted nobody; treat as a rejection,
		// not a transport failure.
		return false, nil
	}
	return rs[0].Status == "Success", nil
}
