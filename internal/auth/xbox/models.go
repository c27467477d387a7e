package xbox

import "fmt"

// XuiClaim is one entry of the xui display-claims sequence.
type XuiClaim struct {
	// UHS is the user hash combined with the XSTS token to form the
	// Minecraft identity token.
	UHS string `json:"uhs"`
}

// DisplayClaims carries the identity claims returned by the Xbox token services.
type DisplayClaims struct {
	Xui []XuiClaim `json:"xui"`
}

// XboxLiveAuthResponse is the parsed body of a successful Xbox Live user
// authentication. It is transient: used within one authentication attempt and
// never persisted.
type XboxLiveAuthResponse struct {
	IssueInstant  string        `json:"IssueInstant"`
	NotAfter      string        `json:"NotAfter"`
	Token         string        `json:"Token"`
	DisplayClaims DisplayClaims `json:"DisplayClaims"`
}

// UserHash returns the UHS of the first xui claim.
func (r *XboxLiveAuthResponse) UserHash() (string, error) {
	if r == nil || len(r.DisplayClaims.Xui) == 0 {
		return "", fmt.Errorf("xbox live response carries no xui display claims")
	}
	return r.DisplayClaims.Xui[0].UHS, nil
}

// xblAuthRequest is the payload of the Xbox Live user-authenticate call.
type xblAuthRequest struct {
	Properties   xblAuthProperties `json:"Properties"`
	RelyingParty string            `json:"RelyingParty"`
	TokenType    string            `json:"TokenType"`
}

type xblAuthProperties struct {
	AuthMethod string `json:"AuthMethod"`
	SiteName   string `json:"SiteName"`
	RpsTicket  string `json:"RpsTicket"`
}

// xstsAuthRequest is the payload of the XSTS authorize call.
type xstsAuthRequest struct {
	Properties   xstsAuthProperties `json:"Properties"`
	RelyingParty string             `json:"RelyingParty"`
	TokenType    string             `json:"TokenType"`
}

type xstsAuthProperties struct {
	SandboxID  string   `json:"SandboxId"`
	UserTokens []string `json:"UserTokens"`
}

// xstsErrorResponse is the body the XSTS service returns on denial.
type xstsErrorResponse struct {
	Identity string `json:"Identity"`
	XErr     int64  `json:"XErr"`
	Message  string `json:"Message"`
	Redirect string `json:"Redirect"`
}
