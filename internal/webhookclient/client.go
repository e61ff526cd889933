// Package webhookclient posts signed message payloads to a webhook
// ingestion endpoint. It is the producer-side counterpart of the service
// and backs the cmd/send tool.
package webhookclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Pratham1708/lyftr-ai-backend/internal/request"
	"github.com/Pratham1708/lyftr-ai-backend/internal/response"
	"github.com/Pratham1708/lyftr-ai-backend/internal/signature"
)

// Client signs payloads with the shared secret and delivers them over HTTP.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// New creates a Client for the service at baseURL using the given shared secret.
func New(baseURL, secret string) *Client {
	return &Client{
		baseURL: baseURL,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// withTimeout wraps the context with a timeout if it doesn't already have one.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

// Send marshals the payload, signs the exact bytes that go on the wire and
// POSTs them to /webhook. The returned status is the acknowledgement body's
// status field ("ok" for created and duplicate alike).
func (c *Client) Send(ctx context.Context, payload request.WebhookPayload) (string, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/webhook", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", signature.Compute(body, c.secret))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", fmt.Errorf("webhook request timeout or canceled: %w", err)
		}
		return "", fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	rawBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(rawBytes))
	}

	var ack response.WebhookAck
	if err := json.Unmarshal(rawBytes, &ack); err != nil {
		return "", fmt.Errorf("failed to parse webhook response: %w", err)
	}

	return ack.Status, nil
}

// Health checks the service readiness probe.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health/ready", nil)
	if err != nil {
		return fmt.Errorf("health: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health: service not ready, status %d", resp.StatusCode)
	}

	return nil
}
