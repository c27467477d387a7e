// Package msa implements the Microsoft account leg of the Minecraft
// authentication chain: PKCE generation, the OAuth2 authorization-code and
// refresh-token exchanges, the local loopback callback listener, and the
// on-disk token cache.
package msa

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// verifierLength is the number of characters in a generated code verifier,
// the maximum RFC 7636 allows.
const verifierLength = 128

// verifierAlphabet is the RFC 7636 unreserved-character set.
const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// PKCECodes holds the verifier and challenge pair for one OAuth2 PKCE flow.
// A fresh pair is generated per authentication attempt and never persisted.
type PKCECodes struct {
	// CodeVerifier is the cryptographically random string used to correlate
	// the authorization request to the token request.
	CodeVerifier string `json:"code_verifier"`
	// CodeChallenge is the SHA256 hash of the code verifier, base64url-encoded
	// without padding.
	CodeChallenge string `json:"code_challenge"`
}

// GeneratePKCECodes generates a PKCE code verifier and challenge pair
// following RFC 7636 for the S256 challenge method.
func GeneratePKCECodes() (*PKCECodes, error) {
	codeVerifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to generate code verifier: %w", err)
	}
	return &PKCECodes{
		CodeVerifier:  codeVerifier,
		CodeChallenge: ChallengeFromVerifier(codeVerifier),
	}, nil
}

// generateCodeVerifier draws verifierLength characters uniformly from the
// unreserved alphabet using crypto/rand.
func generateCodeVerifier() (string, error) {
	max := big.NewInt(int64(len(verifierAlphabet)))
	buf := make([]byte, verifierLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		buf[i] = verifierAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// ChallengeFromVerifier computes the S256 code challenge for a verifier:
// base64url(SHA256(verifier)) without padding.
func ChallengeFromVerifier(codeVerifier string) string {
	hash := sha256.Sum256([]byte(codeVerifier))
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(hash[:])
}
