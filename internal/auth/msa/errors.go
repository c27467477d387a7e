package msa

import (
	"errors"
	"fmt"
)

// Sentinel errors for the interactive login flow.
var (
	// ErrNoCachedToken indicates the cache file does not exist yet.
	ErrNoCachedToken = errors.New("msa: no cached token")

	// ErrNoAuthorizationCode indicates the loopback callback carried no code
	// parameter. The listener is stopped before this is returned.
	ErrNoAuthorizationCode = errors.New("msa: callback carried no authorization code")

	// ErrStateMismatch indicates the callback state did not match the one
	// embedded in the authorize URL.
	ErrStateMismatch = errors.New("msa: oauth state mismatch")

	// ErrCallbackTimeout indicates the loopback listener gave up waiting for
	// the browser redirect.
	ErrCallbackTimeout = errors.New("msa: timeout waiting for oauth callback")
)

// MicrosoftAuthenticationError is returned when the Microsoft token endpoint
// answers an authorization-code exchange with a non-success status. It carries
// the inputs of the failed exchange and the raw response body for diagnosis.
type MicrosoftAuthenticationError struct {
	// ClientID is the OAuth client the exchange was performed for.
	ClientID string
	// Code is the authorization code that failed to exchange.
	Code string
	// StatusCode is the HTTP status returned by the token endpoint.
	StatusCode int
	// Body is the raw response body.
	Body string
}

// Error returns a string representation of the failed exchange.
func (e *MicrosoftAuthenticationError) Error() string {
	return fmt.Sprintf("microsoft token exchange failed with status %d (client_id=%s): %s", e.StatusCode, e.ClientID, e.Body)
}

// IsMicrosoftAuthenticationError reports whether err wraps a
// MicrosoftAuthenticationError.
func IsMicrosoftAuthenticationError(err error) bool {
	var target *MicrosoftAuthenticationError
	return errors.As(err, &target)
}
