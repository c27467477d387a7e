package minecraft

import (
	"errors"
	"fmt"
)

// ErrGameNotOwned indicates the authenticated account has no Minecraft
// entitlement.
var ErrGameNotOwned = errors.New("minecraft: account does not own the game")

// MinecraftBearerError is returned when the login_with_xbox endpoint answers
// with a non-success status. It carries the XSTS token that was presented and
// the raw response body.
type MinecraftBearerError struct {
	// XSTSToken is the XSTS token the login was attempted with.
	XSTSToken string
	// StatusCode is the HTTP status returned by the endpoint.
	StatusCode int
	// Body is the raw response body.
	Body string
}

// Error returns a string representation of the failed login.
func (e *MinecraftBearerError) Error() string {
	return fmt.Sprintf("minecraft login failed with status %d: %s", e.StatusCode, e.Body)
}

// IsMinecraftBearerError reports whether err wraps a MinecraftBearerError.
func IsMinecraftBearerError(err error) bool {
	var target *MinecraftBearerError
	return errors.As(err, &target)
}
