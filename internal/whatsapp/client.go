// Package whatsapp sends WhatsApp messages through the Twilio Messages API
// and validates inbound Twilio webhooks.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"leadconvert/platform/config"
	"leadconvert/platform/logger"
	"leadconvert/platform/phone"
)

// SendResult carries the provider's message identifiers.
type SendResult struct {
	SID    string
	Status string
}

type Client struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	http       *http.Client
	log        *logger.Logger
}

type twilioMessageResponse struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewClient builds a Twilio-backed WhatsApp client. Returns nil when the
// Twilio credentials are not configured; a nil client drops sends.
func NewClient(cfg config.TwilioConfig, log *logger.Logger) *Client {
	if !cfg.IsWhatsAppEnabled() {
		return nil
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.GetTwilioBaseURL(), "/"),
		accountSID: cfg.GetTwilioAccountSID(),
		authToken:  cfg.GetTwilioAuthToken(),
		fromNumber: cfg.GetTwilioWhatsAppNumber(),
		http:       &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// Enabled reports whether the client can actually send.
func (c *Client) Enabled() bool {
	return c != nil
}

// SendMessage delivers a WhatsApp message via the Twilio Messages endpoint.
func (c *Client) SendMessage(ctx context.Context, phoneNumber, message string) (SendResult, error) {
	if c == nil {
		return SendResult{}, fmt.Errorf("whatsapp provider not configured")
	}

	normalized := phone.Normalize(phoneNumber)

	form := url.Values{}
	form.Set("From", "whatsapp:"+c.fromNumber)
	form.Set("To", "whatsapp:"+normalized)
	form.Set("Body", message)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return SendResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return SendResult{}, err
	}

	var parsed twilioMessageResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return SendResult{}, fmt.Errorf("decode twilio response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return SendResult{}, fmt.Errorf("twilio returned %d: %s", resp.StatusCode, parsed.Message)
	}

	c.log.Info("whatsapp sent", "phone", normalized, "sid", parsed.SID, "status", parsed.Status)
	return SendResult{SID: parsed.SID, Status: parsed.Status}, nil
}
