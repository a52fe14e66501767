// Package vrforacle is a thin HTTP client for the external randomness oracle.
// The oracle fulfills requests asynchronously: a request is opened first and
// the fulfillment is polled until the oracle has produced a value and proof.
package vrforacle

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Fulfillment is the oracle's response for a single randomness request.
type Fulfillment struct {
	RequestID  string `json:"request_id"`
	Fulfilled  bool   `json:"fulfilled"`
	Randomness string `json:"randomness,omitempty"` // hex, 32 bytes
	Proof      string `json:"proof,omitempty"`      // hex
	PublicKey  string `json:"public_key,omitempty"` // hex
}

func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// OpenRequest asks the oracle to start producing a random value and returns
// the request ID to poll with.
func (c *Client) OpenRequest(ctx context.Context) (string, error) {
	var result struct {
		RequestID string `json:"request_id"`
		Error     string `json:"error,omitempty"`
	}
	if err := c.makeRequest(ctx, http.MethodPost, c.baseURL+"/v1/requests", nil, &result); err != nil {
		return "", fmt.Errorf("failed to open randomness request: %w", err)
	}
	if result.RequestID == "" {
		return "", fmt.Errorf("oracle error: %s", result.Error)
	}
	return result.RequestID, nil
}

// GetFulfillment fetches the current state of a randomness request.
func (c *Client) GetFulfillment(ctx context.Context, requestID string) (*Fulfillment, error) {
	var result Fulfillment
	endpoint := fmt.Sprintf("%s/v1/requests/%s", c.baseURL, requestID)
	if err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to fetch fulfillment: %w", err)
	}
	return &result, nil
}

// RandomnessBytes decodes the fulfilled randomness into a fixed 32-byte value.
func (f *Fulfillment) RandomnessBytes() ([32]byte, error) {
	var out [32]byte
	b, err := hex.DecodeString(f.Randomness)
	if err != nil {
		return out, fmt.Errorf("malformed randomness hex: %w", err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("unexpected randomness length: %d", len(b))
	}
	copy(out[:], b)
	return out, nil
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, payload interface{}, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("oracle returned status %d: %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}
