package xbox

import (
	"context"
	"encoding/json"
	"fmt"
)

// AuthorizeXSTS exchanges an Xbox Live user token for an XSTS token scoped to
// the Minecraft relying party. A non-success status yields an *XSTSError
// carrying the presented Xbox Live token, the raw response body, and the
// decoded XErr denial code when the body carries one.
func (x *XboxAuth) AuthorizeXSTS(ctx context.Context, xblResp *XboxLiveAuthResponse) (string, error) {
	if xblResp == nil || xblResp.Token == "" {
		return "", fmt.Errorf("xbox live token is required")
	}

	payload := xstsAuthRequest{
		Properties: xstsAuthProperties{
			SandboxID:  "RETAIL",
			UserTokens: []string{xblResp.Token},
		},
		RelyingParty: xstsRelyingParty,
		TokenType:    "JWT",
	}

	status, body, err := x.postJSON(ctx, x.xstsAuthURL, payload)
	if err != nil {
		return "", fmt.Errorf("xsts authorization request failed: %w", err)
	}
	if status < 200 || status >= 300 {
		xstsErr := &XSTSError{
			XboxLiveToken: xblResp.Token,
			StatusCode:    status,
			Body:          string(body),
		}
		var denial xstsErrorResponse
		if jsonErr := json.Unmarshal(body, &denial); jsonErr == nil {
			xstsErr.XErr = denial.XErr
		}
		return "", xstsErr
	}

	var parsed XboxLiveAuthResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse xsts response: %w", err)
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("xsts response carries no token")
	}
	return parsed.Token, nil
}
