package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// APIError is returned when the receiver answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webhook receiver returned %d: %s", e.StatusCode, e.Body)
}

// Client posts JSON payloads to HTTP endpoints. It never retries.
type Client struct {
	http   *http.Client
	signer *Signer
}

// NewClient builds a client with the given per-request timeout. signer may be
// nil, in which case requests go out unsigned.
func NewClient(timeout time.Duration, signer *Signer) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		signer: signer,
	}
}

// PostJSON marshals payload and posts it to url. The status code is returned
// even when the call fails with an APIError.
func (c *Client) PostJSON(ctx context.Context, url string, payload interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "shiftwatch-notifier/1.0")
	if c.signer.Enabled() {
		req.Header.Set(SignatureHeader, c.signer.Sign(body))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
