package minecraft

// loginResponse is the body of a successful login_with_xbox call.
type loginResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// loginRequest is the payload of the login_with_xbox call.
type loginRequest struct {
	IdentityToken       string `json:"identityToken"`
	EnsureLegacyEnabled bool   `json:"ensureLegacyEnabled"`
}

// entitlementsResponse is the body of the entitlements store call.
type entitlementsResponse struct {
	Items []entitlementItem `json:"items"`
}

type entitlementItem struct {
	Name      string `json:"name"`
	Signature string `json:"signature"`
}

// Profile is the Minecraft player profile attached to an authenticated account.
type Profile struct {
	// ID is the player UUID without dashes.
	ID string `json:"id"`
	// Name is the in-game username.
	Name string `json:"name"`
}
