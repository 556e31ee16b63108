package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// NotifierPoster posts JSON payloads to the ops webhook service.
type NotifierPoster interface {
	PostJSON(ctx context.Context, path string, payload any, requestID string) (map[string]any, error)
}

// NotifierClient delivers submission events to the internal ops webhook.
type NotifierClient struct {
	client  *http.Client
	baseURL string
}

// NewNotifierClient builds a notifier, auto-configuring an ID token client
// for service-to-service calls when none is supplied.
func NewNotifierClient(client *http.Client, baseURL string) *NotifierClient {
	if baseURL == "" {
		panic("notifier baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), baseURL)
		if err != nil {
			client = &http.Client{Timeout: 10 * time.Second}
		} else {
			client = idc
		}
	}
	return &NotifierClient{client: client, baseURL: baseURL}
}

// PostJSON posts the payload to the webhook and returns the "data" object.
func (c *NotifierClient) PostJSON(ctx context.Context, path string, payload any, requestID string) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("webhook error: %s", extractWebhookError(resp.Body))
	}

	var webhookResp struct {
		Data  map[string]any `json:"data"`
		Error string         `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&webhookResp); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode webhook response: %w", err)
	}
	if webhookResp.Error != "" {
		return nil, fmt.Errorf("webhook error: %s", webhookResp.Error)
	}
	return webhookResp.Data, nil
}

func extractWebhookError(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "unknown error"
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return strings.TrimSpace(string(raw))
}

var _ NotifierPoster = (*NotifierClient)(nil)
