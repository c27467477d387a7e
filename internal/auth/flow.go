// Package auth orchestrates the full Minecraft login chain: Microsoft account
// sign-in, Xbox Live user authentication, XSTS authorization, and the final
// Minecraft services login. The sub-packages implement the individual legs;
// this package sequences them and decides when the cached Microsoft token can
// be reused instead of bothering the user.
package auth

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/frostline-mc/frostline/internal/auth/minecraft"
	"github.com/frostline-mc/frostline/internal/auth/msa"
	"github.com/frostline-mc/frostline/internal/auth/xbox"
	"github.com/frostline-mc/frostline/internal/misc"
)

// Authenticator runs the token exchange chain end to end. Concurrent calls
// sharing a token cache are collapsed into a single login so two goroutines
// never race each other into the browser.
type Authenticator struct {
	msAuth   *msa.MicrosoftAuth
	xboxAuth *xbox.XboxAuth
	mcAuth   *minecraft.MinecraftAuth
	granter  CodeGranter
	group    singleflight.Group
}

// NewAuthenticator wires the three exchange services and the code granter into
// an authenticator.
func NewAuthenticator(msAuth *msa.MicrosoftAuth, xboxAuth *xbox.XboxAuth, mcAuth *minecraft.MinecraftAuth, granter CodeGranter) *Authenticator {
	return &Authenticator{
		msAuth:   msAuth,
		xboxAuth: xboxAuth,
		mcAuth:   mcAuth,
		granter:  granter,
	}
}

// AcquireBearerToken returns a Minecraft bearer token, reusing or refreshing
// the cached Microsoft token when possible and falling back to an interactive
// browser login otherwise.
func (a *Authenticator) AcquireBearerToken(ctx context.Context) (string, error) {
	key := "interactive-login"
	if cache := a.msAuth.Cache(); cache != nil {
		key = cache.Path()
	}

	bearer, err, _ := a.group.Do(key, func() (interface{}, error) {
		return a.acquireBearerToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return bearer.(string), nil
}

func (a *Authenticator) acquireBearerToken(ctx context.Context) (string, error) {
	// Only cache load and refresh failures fall through to the interactive
	// flow. Once a Microsoft token enters the chain, any stage failure aborts
	// and propagates; there is no automatic retry.
	if cached := a.silentMicrosoftToken(ctx); cached != nil {
		return a.completeChain(ctx, cached.AccessToken)
	}

	token, err := a.interactiveLogin(ctx)
	if err != nil {
		return "", err
	}
	return a.completeChain(ctx, token.AccessToken)
}

// silentMicrosoftToken produces a usable Microsoft access token from the cache
// without user interaction, or nil when that is not possible. Cache and
// refresh failures are deliberately swallowed: the caller falls through to the
// interactive flow.
func (a *Authenticator) silentMicrosoftToken(ctx context.Context) *msa.TokenData {
	cache := a.msAuth.Cache()
	if cache == nil {
		return nil
	}

	cached, err := cache.Load()
	if err != nil {
		if !errors.Is(err, msa.ErrNoCachedToken) {
			log.WithField("error", err).Debug("token cache unreadable, treating as cache miss")
		}
		return nil
	}
	if cached.Valid() {
		log.Debug("reusing cached microsoft access token")
		return cached
	}
	if cached.RefreshToken == "" {
		return nil
	}

	log.Debug("cached microsoft token expired, attempting refresh")
	refreshed, err := a.msAuth.RefreshTokens(ctx, cached.RefreshToken)
	if err != nil {
		log.WithField("error", err).Debug("microsoft token refresh failed, treating as cache miss")
		return nil
	}
	return refreshed
}

// interactiveLogin runs the browser-based authorization code flow with PKCE
// and exchanges the resulting code for a Microsoft token pair.
func (a *Authenticator) interactiveLogin(ctx context.Context) (*msa.TokenData, error) {
	pkceCodes, err := msa.GeneratePKCECodes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PKCE codes: %w", err)
	}
	state, err := misc.GenerateRandomState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}
	authURL, err := a.msAuth.GenerateAuthURL(state, pkceCodes)
	if err != nil {
		return nil, err
	}

	code, err := a.granter.ObtainCode(ctx, authURL, state)
	if err != nil {
		return nil, err
	}
	return a.msAuth.ExchangeCodeForTokens(ctx, code, pkceCodes)
}

// completeChain walks a Microsoft access token through Xbox Live, XSTS, and
// the Minecraft services login, returning the Minecraft bearer token.
func (a *Authenticator) completeChain(ctx context.Context, msAccessToken string) (string, error) {
	xblResp, err := a.xboxAuth.Authenticate(ctx, msAccessToken)
	if err != nil {
		return "", err
	}
	userHash, err := xblResp.UserHash()
	if err != nil {
		return "", err
	}
	log.Debug("xbox live authentication succeeded")

	xstsToken, err := a.xboxAuth.AuthorizeXSTS(ctx, xblResp)
	if err != nil {
		return "", err
	}
	log.Debug("xsts authorization succeeded")

	bearer, err := a.mcAuth.LoginWithXbox(ctx, userHash, xstsToken)
	if err != nil {
		return "", err
	}
	log.Debug("minecraft login succeeded")
	return bearer, nil
}

// Logout clears the cached Microsoft token.
func (a *Authenticator) Logout() error {
	if cache := a.msAuth.Cache(); cache != nil {
		return cache.Clear()
	}
	return nil
}
