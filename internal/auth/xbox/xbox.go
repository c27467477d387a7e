// Package xbox implements the Xbox Live and XSTS legs of the Minecraft
// authentication chain: it exchanges a Microsoft access token for an Xbox Live
// user token, then authorizes that token against the Xbox Secure Token Service
// scoped to the Minecraft relying party.
package xbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Endpoints of the Xbox token services.
const (
	UserAuthURL = "https://user.auth.xboxlive.com/user/authenticate"
	XSTSAuthURL = "https://xsts.auth.xboxlive.com/xsts/authorize"

	xblRelyingParty  = "http://auth.xboxlive.com"
	xstsRelyingParty = "rp://api.minecraftservices.com/"
	xblSiteName      = "user.auth.xboxlive.com"
)

// XboxAuth performs the Xbox Live user authentication and the XSTS
// authorization.
type XboxAuth struct {
	httpClient  *http.Client
	userAuthURL string
	xstsAuthURL string
}

// Option configures an XboxAuth service.
type Option func(*XboxAuth)

// WithHTTPClient overrides the HTTP client used for the exchanges.
func WithHTTPClient(client *http.Client) Option {
	return func(x *XboxAuth) {
		x.httpClient = client
	}
}

// WithEndpoints overrides the user-authenticate and XSTS authorize URLs.
func WithEndpoints(userAuthURL, xstsAuthURL string) Option {
	return func(x *XboxAuth) {
		x.userAuthURL = userAuthURL
		x.xstsAuthURL = xstsAuthURL
	}
}

// NewXboxAuth creates an Xbox authentication service.
func NewXboxAuth(opts ...Option) *XboxAuth {
	x := &XboxAuth{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		userAuthURL: UserAuthURL,
		xstsAuthURL: XSTSAuthURL,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Authenticate exchanges a Microsoft access token for an Xbox Live user token.
// A non-success status yields an *XboxLiveAuthenticationError carrying the
// presented Microsoft token and the raw response body.
func (x *XboxAuth) Authenticate(ctx context.Context, msAccessToken string) (*XboxLiveAuthResponse, error) {
	if msAccessToken == "" {
		return nil, fmt.Errorf("microsoft access token is required")
	}

	payload := xblAuthRequest{
		Properties: xblAuthProperties{
			AuthMethod: "RPS",
			SiteName:   xblSiteName,
			RpsTicket:  "d=" + msAccessToken,
		},
		RelyingParty: xblRelyingParty,
		TokenType:    "JWT",
	}

	status, body, err := x.postJSON(ctx, x.userAuthURL, payload)
	if err != nil {
		return nil, fmt.Errorf("xbox live authentication request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		return nil, &XboxLiveAuthenticationError{
			MicrosoftToken: msAccessToken,
			StatusCode:     status,
			Body:           string(body),
		}
	}

	var parsed XboxLiveAuthResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse xbox live response: %w", err)
	}
	if parsed.Token == "" {
		return nil, fmt.Errorf("xbox live response carries no token")
	}
	return &parsed, nil
}

// postJSON sends a JSON POST and returns the status code and raw body.
func (x *XboxAuth) postJSON(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := x.httpClient.Do(req)
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
