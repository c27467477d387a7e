package msa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// OAuth endpoints of the Microsoft identity platform for consumer accounts.
const (
	AuthorizeURL = "https://login.microsoftonline.com/consumers/oauth2/v2.0/authorize"
	TokenURL     = "https://login.microsoftonline.com/consumers/oauth2/v2.0/token"

	// Scope requests Xbox Live sign-in plus a refresh token.
	Scope = "XboxLive.signin offline_access"
)

// MicrosoftAuth performs the authorization-code and refresh-token exchanges
// against the Microsoft identity platform and maintains the token cache.
type MicrosoftAuth struct {
	httpClient   *http.Client
	clientID     string
	redirectURI  string
	authorizeURL string
	tokenURL     string
	cache        *TokenCache
}

// Option configures a MicrosoftAuth service.
type Option func(*MicrosoftAuth)

// WithHTTPClient overrides the HTTP client used for token endpoint requests.
func WithHTTPClient(client *http.Client) Option {
	return func(a *MicrosoftAuth) {
		a.httpClient = client
	}
}

// WithEndpoints overrides the authorize and token endpoint URLs.
func WithEndpoints(authorizeURL, tokenURL string) Option {
	return func(a *MicrosoftAuth) {
		a.authorizeURL = authorizeURL
		a.tokenURL = tokenURL
	}
}

// NewMicrosoftAuth creates a Microsoft authentication service for the given
// client ID and redirect URI, persisting tokens through cache.
func NewMicrosoftAuth(clientID, redirectURI string, cache *TokenCache, opts ...Option) *MicrosoftAuth {
	a := &MicrosoftAuth{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		clientID:     clientID,
		redirectURI:  redirectURI,
		authorizeURL: AuthorizeURL,
		tokenURL:     TokenURL,
		cache:        cache,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Cache returns the token cache backing this service.
func (a *MicrosoftAuth) Cache() *TokenCache {
	return a.cache
}

// GenerateAuthURL builds the authorize URL for the interactive browser login,
// embedding the PKCE challenge and CSRF state.
func (a *MicrosoftAuth) GenerateAuthURL(state string, pkceCodes *PKCECodes) (string, error) {
	if pkceCodes == nil {
		return "", fmt.Errorf("PKCE codes are required")
	}

	params := url.Values{
		"client_id":             {a.clientID},
		"response_type":         {"code"},
		"redirect_uri":          {a.redirectURI},
		"scope":                 {Scope},
		"state":                 {state},
		"cobrandid":             {"8058f65d-ce06-4c30-9559-473c9275a65d"},
		"prompt":                {"select_account"},
		"code_challenge":        {pkceCodes.CodeChallenge},
		"code_challenge_method": {"S256"},
	}
	return fmt.Sprintf("%s?%s", a.authorizeURL, params.Encode()), nil
}

// ExchangeCodeForTokens exchanges an authorization code for a Microsoft token
// pair. A non-success status yields a *MicrosoftAuthenticationError carrying
// the client ID, the code, and the raw response body. On success the raw
// response is persisted to the cache before the parsed token is returned.
func (a *MicrosoftAuth) ExchangeCodeForTokens(ctx context.Context, code string, pkceCodes *PKCECodes) (*TokenData, error) {
	if pkceCodes == nil {
		return nil, fmt.Errorf("PKCE codes are required for token exchange")
	}

	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {a.clientID},
		"code":          {code},
		"code_verifier": {pkceCodes.CodeVerifier},
		"redirect_uri":  {a.redirectURI},
	}

	status, body, err := a.postForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("token exchange request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &MicrosoftAuthenticationError{
			ClientID:   a.clientID,
			Code:       code,
			StatusCode: status,
			Body:       string(body),
		}
	}
	return a.persistTokenResponse(body)
}

// RefreshTokens exchanges a refresh token for a fresh Microsoft token pair.
// A non-success status is treated as a cache miss, not a failure: the method
// returns (nil, nil) and the caller falls back to interactive login. On
// success the raw response is persisted to the cache.
func (a *MicrosoftAuth) RefreshTokens(ctx context.Context, refreshToken string) (*TokenData, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {a.clientID},
		"refresh_token": {refreshToken},
		"redirect_uri":  {a.redirectURI},
	}

	status, body, err := a.postForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("token refresh request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		log.WithField("status", status).Debug("microsoft token refresh rejected, treating as cache miss")
		return nil, nil
	}
	return a.persistTokenResponse(body)
}

// postForm sends a form-urlencoded POST to the token endpoint and returns the
// status code and raw body.
func (a *MicrosoftAuth) postForm(ctx context.Context, form url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read token response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// persistTokenResponse stores the raw success body in the cache and returns
// the parsed token.
func (a *MicrosoftAuth) persistTokenResponse(rawBody []byte) (*TokenData, error) {
	var parsed tokenResponse
	if err := json.Unmarshal(rawBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return nil, fmt.Errorf("token response carries no access_token")
	}

	token := &TokenData{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		Expiry:       time.Now().Add(expiresInFromRaw(rawBody)),
		Raw:          rawBody,
	}
	if a.cache != nil {
		if err := a.cache.Store(rawBody); err != nil {
			return nil, err
		}
	}
	return token, nil
}
