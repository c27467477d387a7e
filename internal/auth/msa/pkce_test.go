package msa

import (
	"strings"
	"testing"
)

func TestGeneratePKCECodes(t *testing.T) {
	t.Parallel()

	codes, err := GeneratePKCECodes()
	if err != nil {
		t.Fatalf("GeneratePKCECodes() error: %v", err)
	}

	if len(codes.CodeVerifier) != verifierLength {
		t.Errorf("verifier length = %d, want %d", len(codes.CodeVerifier), verifierLength)
	}
	for _, r := range codes.CodeVerifier {
		if !strings.ContainsRune(verifierAlphabet, r) {
			t.Errorf("verifier contains character %q outside the unreserved alphabet", r)
		}
	}
	if codes.CodeChallenge != ChallengeFromVerifier(codes.CodeVerifier) {
		t.Error("challenge does not match S256 of the verifier")
	}
	if strings.ContainsAny(codes.CodeChallenge, "=+/") {
		t.Errorf("challenge %q is not base64url without padding", codes.CodeChallenge)
	}

	other, err := GeneratePKCECodes()
	if err != nil {
		t.Fatalf("GeneratePKCECodes() error: %v", err)
	}
	if other.CodeVerifier == codes.CodeVerifier {
		t.Error("two generated verifiers are identical")
	}
}

// Vector from RFC 7636 appendix B.
func TestChallengeFromVerifierKnownVector(t *testing.T) {
	t.Parallel()

	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	if got := ChallengeFromVerifier(verifier); got != want {
		t.Errorf("ChallengeFromVerifier() = %q, want %q", got, want)
	}
}
