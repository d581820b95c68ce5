package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// RevalidateClient posts cache/layout invalidation signals to the
// frontend's on-demand revalidation endpoint after a successful account
// operation, so server-rendered pages pick up the new identity.
type RevalidateClient struct {
	endpoint   string
	secret     string
	httpClient *http.Client
}

// NewRevalidateClient creates a client for the given endpoint. An empty
// endpoint disables revalidation entirely.
func NewRevalidateClient(endpoint, secret string) *RevalidateClient {
	return &RevalidateClient{
		endpoint:   endpoint,
		secret:     secret,
		httpClient: &http.Client{},
	}
}

// Revalidate asks the presentation layer to rebuild the given path.
func (c *RevalidateClient) Revalidate(ctx context.Context, path string) error {
	if c.endpoint == "" {
		return nil
	}

	payload := map[string]string{
		"path":   path,
		"secret": c.secret,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("revalidate: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("revalidate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revalidate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("revalidate: endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
