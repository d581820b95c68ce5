package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/arturoeanton/go-course-accounts/internal/domain"
	"github.com/arturoeanton/go-course-accounts/internal/port"
)

const (
	signUpPath        = "/signup"
	passwordGrantPath = "/token?grant_type=password"
)

// AuthClient implements port.IdentityProvider against a GoTrue-compatible
// auth endpoint. The platform owns password hashing, email confirmation
// and token issuance; this client only speaks the two flows the account
// operations need.
type AuthClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAuthClient creates a client for the given auth base URL
// (e.g. https://<project>.supabase.co/auth/v1).
func NewAuthClient(baseURL, apiKey string) *AuthClient {
	return &AuthClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// SignUp registers a new identity with the given metadata attached.
func (c *AuthClient) SignUp(ctx context.Context, email, password string, metadata domain.Metadata) (*domain.Identity, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	resp, err := c.post(ctx, signUpPath, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeProviderError(resp)
	}

	var user domain.Identity
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("gotrue: decode signup response: %w", err)
	}
	return &user, nil
}

// SignIn authenticates with the password grant and returns the identity
// embedded in the session.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}

	resp, err := c.post(ctx, passwordGrantPath, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeProviderError(resp)
	}

	var session struct {
		AccessToken string          `json:"access_token"`
		User        domain.Identity `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("gotrue: decode token response: %w", err)
	}
	return &session.User, nil
}

func (c *AuthClient) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gotrue: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gotrue: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gotrue: %s: %w", path, err)
	}
	return resp, nil
}

// decodeProviderError maps a non-2xx auth response to a port.ProviderError,
// keeping the platform's status and message intact. GoTrue has shipped
// several error shapes over the years, so all known message keys are tried.
func decodeProviderError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		ErrorField       string `json:"error"`
	}
	message := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &apiErr); err == nil {
		for _, m := range []string{apiErr.Msg, apiErr.Message, apiErr.ErrorDescription, apiErr.ErrorField} {
			if m != "" {
				message = m
				break
			}
		}
	}
	if message == "" {
		message = resp.Status
	}

	return &port.ProviderError{Status: resp.StatusCode, Message: message}
}
