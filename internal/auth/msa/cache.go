package msa

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/frostline-mc/frostline/internal/misc"
)

// TokenCache persists the raw JSON body of the last successful Microsoft
// token exchange to a single file. The file is overwritten on every
// successful exchange or refresh; there is no backup or versioning.
type TokenCache struct {
	path string
}

// NewTokenCache creates a TokenCache backed by the file at path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path returns the cache file location.
func (c *TokenCache) Path() string {
	return c.path
}

// Store writes the raw token endpoint response to the cache file, stamped
// with a cached_at timestamp so an absolute expiry can be derived from the
// relative expires_in on load. Written with owner-only permissions.
func (c *TokenCache) Store(rawBody []byte) error {
	misc.LogSavingCredentials(c.path)

	stamped, err := sjson.SetBytes(rawBody, "cached_at", time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to stamp token record: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err = os.WriteFile(c.path, stamped, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// Load reads the cached token record. A missing file yields ErrNoCachedToken;
// an unreadable or malformed record yields a descriptive error, which callers
// treat as a cache miss and fall through to interactive login.
func (c *TokenCache) Load() (*TokenData, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCachedToken
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}
	return parseTokenRecord(raw)
}

// Clear removes the cache file. Removing an absent file is not an error.
func (c *TokenCache) Clear() error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token cache: %w", err)
	}
	return nil
}

// expiresInFromRaw returns the relative expiry carried by a token response,
// defaulting to an hour when absent.
func expiresInFromRaw(raw []byte) time.Duration {
	if expiresIn := gjson.GetBytes(raw, "expires_in").Int(); expiresIn > 0 {
		return time.Duration(expiresIn) * time.Second
	}
	return time.Hour
}

// parseTokenRecord extracts the typed token fields out of a raw cache record.
func parseTokenRecord(raw []byte) (*TokenData, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("token cache is not valid JSON")
	}

	record := gjson.ParseBytes(raw)
	accessToken := record.Get("access_token").String()
	refreshToken := record.Get("refresh_token").String()
	if accessToken == "" && refreshToken == "" {
		return nil, fmt.Errorf("token cache carries neither access_token nor refresh_token")
	}

	token := &TokenData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Raw:          raw,
	}
	if cachedAt := record.Get("cached_at").String(); cachedAt != "" {
		if base, err := time.Parse(time.RFC3339, cachedAt); err == nil {
			if expiresIn := record.Get("expires_in").Int(); expiresIn > 0 {
				token.Expiry = base.Add(time.Duration(expiresIn) * time.Second)
			}
		}
	}
	return token, nil
}
