package msa

import "time"

// tokenResponse represents the response structure of the Microsoft identity
// token endpoint for both authorization-code and refresh-token grants.
type tokenResponse struct {
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	IDToken      string `json:"id_token,omitempty"`
	Error        string `json:"error,omitempty"`
	ErrorDesc    string `json:"error_description,omitempty"`
}

// TokenData holds a Microsoft account token pair together with the raw
// response body it was parsed from. The raw body is what gets persisted to the
// cache file; the typed fields are what the rest of the chain consumes.
type TokenData struct {
	// AccessToken is the Microsoft access token fed into the Xbox Live exchange.
	AccessToken string
	// RefreshToken is used for silent re-authentication on later attempts.
	RefreshToken string
	// Expiry is the absolute expiry derived from the response's expires_in.
	Expiry time.Time
	// Raw is the verbatim JSON response body from the token endpoint.
	Raw []byte
}

// Valid reports whether the access token is present and not yet expired.
func (t *TokenData) Valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return t.Expiry.IsZero() || time.Now().Before(t.Expiry)
}
