package xbox

import (
	"errors"
	"fmt"
)

// Well-known XErr denial codes returned by the XSTS service.
const (
	// XErrNoXboxAccount means the Microsoft account has no Xbox profile.
	XErrNoXboxAccount = 2148916233
	// XErrChildAccount means the account is a child and cannot proceed
	// without being added to a family.
	XErrChildAccount = 2148916238
)

// XboxLiveAuthenticationError is returned when the Xbox Live user-authenticate
// endpoint answers with a non-success status. It carries the Microsoft access
// token that was presented and the raw response body.
type XboxLiveAuthenticationError struct {
	// MicrosoftToken is the Microsoft access token the exchange was attempted with.
	MicrosoftToken string
	// StatusCode is the HTTP status returned by the endpoint.
	StatusCode int
	// Body is the raw response body.
	Body string
}

// Error returns a string representation of the failed exchange.
func (e *XboxLiveAuthenticationError) Error() string {
	return fmt.Sprintf("xbox live authentication failed with status %d: %s", e.StatusCode, e.Body)
}

// XSTSError is returned when the XSTS authorize endpoint answers with a
// non-success status. It carries the Xbox Live token that was presented, the
// raw response body, and the decoded XErr code when present.
type XSTSError struct {
	// XboxLiveToken is the Xbox Live user token the authorization was attempted with.
	XboxLiveToken string
	// StatusCode is the HTTP status returned by the endpoint.
	StatusCode int
	// Body is the raw response body.
	Body string
	// XErr is the Xbox denial code decoded from the body, zero when absent.
	XErr int64
}

// Error returns a string representation of the failed authorization,
// including a hint for the well-known denial codes.
func (e *XSTSError) Error() string {
	switch e.XErr {
	case XErrNoXboxAccount:
		return fmt.Sprintf("xsts authorization failed with status %d: account has no Xbox profile (XErr %d)", e.StatusCode, e.XErr)
	case XErrChildAccount:
		return fmt.Sprintf("xsts authorization failed with status %d: child account requires a family (XErr %d)", e.StatusCode, e.XErr)
	default:
		return fmt.Sprintf("xsts authorization failed with status %d: %s", e.StatusCode, e.Body)
	}
}

// IsXboxLiveAuthenticationError reports whether err wraps an
// XboxLiveAuthenticationError.
func IsXboxLiveAuthenticationError(err error) bool {
	var target *XboxLiveAuthenticationError
	return errors.As(err, &target)
}

// IsXSTSError reports whether err wraps an XSTSError.
func IsXSTSError(err error) bool {
	var target *XSTSError
	return errors.As(err, &target)
}
