// Package ai calls an OpenAI-compatible chat completion endpoint for
// personalized message generation.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"leadconvert/platform/config"
	"leadconvert/platform/logger"
)

type Client struct {
	apiURL string
	apiKey string
	model  string
	http   *http.Client
	log    *logger.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient builds the completion client. Returns nil when no API key is
// configured; callers fall back to templates.
func NewClient(cfg config.AIConfig, log *logger.Logger) *Client {
	if !cfg.IsAIEnabled() {
		return nil
	}
	return &Client{
		apiURL: cfg.GetAIAPIURL(),
		apiKey: cfg.GetAIAPIKey(),
		model:  cfg.GetAIModel(),
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}
}

// Complete sends a system and user prompt and returns the generated text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("ai client not configured")
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("completion api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
