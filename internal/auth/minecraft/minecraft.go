// Package minecraft implements the final leg of the authentication chain:
// exchanging the combined Xbox identity for a Minecraft bearer token, plus the
// entitlement and profile lookups that follow a successful login.
package minecraft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Endpoints of the Minecraft services API.
const (
	LoginWithXboxURL = "https://api.minecraftservices.com/authentication/login_with_xbox"
	EntitlementsURL  = "https://api.minecraftservices.com/entitlements/mcstore"
	ProfileURL       = "https://api.minecraftservices.com/minecraft/profile"
)

// MinecraftAuth talks to the Minecraft services API.
type MinecraftAuth struct {
	httpClient      *http.Client
	loginURL        string
	entitlementsURL string
	profileURL      string
}

// Option configures a MinecraftAuth service.
type Option func(*MinecraftAuth)

// WithHTTPClient overrides the HTTP client used for the API calls.
func WithHTTPClient(client *http.Client) Option {
	return func(m *MinecraftAuth) {
		m.httpClient = client
	}
}

// WithEndpoints overrides the login, entitlements, and profile URLs.
func WithEndpoints(loginURL, entitlementsURL, profileURL string) Option {
	return func(m *MinecraftAuth) {
		m.loginURL = loginURL
		m.entitlementsURL = entitlementsURL
		m.profileURL = profileURL
	}
}

// NewMinecraftAuth creates a Minecraft services client.
func NewMinecraftAuth(opts ...Option) *MinecraftAuth {
	m := &MinecraftAuth{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		loginURL:        LoginWithXboxURL,
		entitlementsURL: EntitlementsURL,
		profileURL:      ProfileURL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoginWithXbox exchanges the Xbox identity (user hash plus XSTS token) for a
// Minecraft bearer access token. A non-success status yields a
// *MinecraftBearerError carrying the presented XSTS token and the raw body.
func (m *MinecraftAuth) LoginWithXbox(ctx context.Context, userHash, xstsToken string) (string, error) {
	if userHash == "" || xstsToken == "" {
		return "", fmt.Errorf("user hash and xsts token are required")
	}

	payload := loginRequest{
		IdentityToken:       fmt.Sprintf("XBL3.0 x=%s;%s", userHash, xstsToken),
		EnsureLegacyEnabled: true,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.loginURL, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, body, err := m.do(req)
	if err != nil {
		return "", fmt.Errorf("minecraft login request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return "", &MinecraftBearerError{
			XSTSToken:  xstsToken,
			StatusCode: status,
			Body:       string(body),
		}
	}

	var parsed loginResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse login response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("login response carries no access_token")
	}
	return parsed.AccessToken, nil
}

// CheckEntitlements verifies the account owns Minecraft. An empty item list
// yields ErrGameNotOwned.
func (m *MinecraftAuth) CheckEntitlements(ctx context.Context, bearer string) error {
	body, err := m.getAuthorized(ctx, m.entitlementsURL, bearer)
	if err != nil {
		return err
	}

	var parsed entitlementsResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("failed to parse entitlements response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return ErrGameNotOwned
	}
	return nil
}

// GetProfile fetches the player profile for an authenticated account.
func (m *MinecraftAuth) GetProfile(ctx context.Context, bearer string) (*Profile, error) {
	body, err := m.getAuthorized(ctx, m.profileURL, bearer)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err = json.Unmarshal(body, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile response: %w", err)
	}
	return &profile, nil
}

// getAuthorized performs a bearer-authorized GET and returns the raw body.
func (m *MinecraftAuth) getAuthorized(ctx context.Context, endpoint, bearer string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	status, body, err := m.do(req)
	if err != nil {
		return nil, fmt.Errorf("minecraft services request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("minecraft services returned status %d: %s", status, string(body))
	}
	return body, nil
}

func (m *MinecraftAuth) do(req *http.Request) (int, []byte, error) {
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
