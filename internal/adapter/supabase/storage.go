package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// StorageClient implements port.ObjectStore against the platform's
// storage API. Durability and public URL serving are the platform's
// concern; this client only uploads and removes objects.
type StorageClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewStorageClient creates a client for the given storage base URL
// (e.g. https://<project>.supabase.co/storage/v1).
func NewStorageClient(baseURL, apiKey string) *StorageClient {
	return &StorageClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// Upload stores the object under bucket/key and returns the full path the
// platform reports for it.
func (c *StorageClient) Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(bucket, key), body)
	if err != nil {
		return "", fmt.Errorf("storage: create upload request: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: upload %s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("storage: upload failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var uploaded struct {
		Key string `json:"Key"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return "", fmt.Errorf("storage: decode upload response: %w", err)
	}
	if uploaded.Key == "" {
		uploaded.Key = bucket + "/" + key
	}
	return uploaded.Key, nil
}

// Remove deletes an object. Callers treat failures as best-effort.
func (c *StorageClient) Remove(ctx context.Context, bucket, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(bucket, key), nil)
	if err != nil {
		return fmt.Errorf("storage: create delete request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: delete %s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage: delete failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}

func (c *StorageClient) objectURL(bucket, key string) string {
	return c.baseURL + "/object/" + bucket + "/" + key
}
