package minecraft

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestMinecraftAuth(t *testing.T, handler http.Handler) *MinecraftAuth {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewMinecraftAuth(
		WithEndpoints(server.URL+"/authentication/login_with_xbox", server.URL+"/entitlements/mcstore", server.URL+"/minecraft/profile"),
		WithHTTPClient(server.Client()),
	)
}

func TestLoginWithXbox(t *testing.T) {
	t.Parallel()

	var gotPayload map[string]any
	auth := newTestMinecraftAuth(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"username":"abc","access_token":"mc-bearer","token_type":"Bearer","expires_in":86400}`))
	}))

	token, err := auth.LoginWithXbox(context.Background(), "hash-1", "xsts-token")
	if err != nil {
		t.Fatalf("LoginWithXbox() error: %v", err)
	}
	if token != "mc-bearer" {
		t.Errorf("token = %q, want mc-bearer", token)
	}
	if gotPayload["identityToken"] != "XBL3.0 x=hash-1;xsts-token" {
		t.Errorf("identityToken = %v", gotPayload["identityToken"])
	}
	if gotPayload["ensureLegacyEnabled"] != true {
		t.Errorf("ensureLegacyEnabled = %v", gotPayload["ensureLegacyEnabled"])
	}
}

func TestLoginWithXboxFailure(t *testing.T) {
	t.Parallel()

	auth := newTestMinecraftAuth(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"FORBIDDEN"}`))
	}))

	_, err := auth.LoginWithXbox(context.Background(), "hash-1", "xsts-token")
	var bearerErr *MinecraftBearerError
	if !errors.As(err, &bearerErr) {
		t.Fatalf("error = %v, want *MinecraftBearerError", err)
	}
	if bearerErr.XSTSToken != "xsts-token" || bearerErr.StatusCode != http.StatusForbidden {
		t.Errorf("error fields = %+v", bearerErr)
	}
	if !IsMinecraftBearerError(err) {
		t.Error("IsMinecraftBearerError() = false")
	}
}

func TestLoginWithXboxMissingInputs(t *testing.T) {
	t.Parallel()

	auth := NewMinecraftAuth()
	if _, err := auth.LoginWithXbox(context.Background(), "", "xsts"); err == nil {
		t.Error("empty user hash expected error")
	}
	if _, err := auth.LoginWithXbox(context.Background(), "hash", ""); err == nil {
		t.Error("empty xsts token expected error")
	}
}

func TestCheckEntitlements(t *testing.T) {
	t.Parallel()

	var gotAuthz string
	auth := newTestMinecraftAuth(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthz = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"name":"product_minecraft","signature":"sig"},{"name":"game_minecraft","signature":"sig"}]}`))
	}))

	if err := auth.CheckEntitlements(context.Background(), "mc-bearer"); err != nil {
		t.Fatalf("CheckEntitlements() error: %v", err)
	}
	if gotAuthz != "Bearer mc-bearer" {
		t.Errorf("Authorization = %q", gotAuthz)
	}
}

func TestCheckEntitlementsNotOwned(t *testing.T) {
	t.Parallel()

	auth := newTestMinecraftAuth(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))

	err := auth.CheckEntitlements(context.Background(), "mc-bearer")
	if !errors.Is(err, ErrGameNotOwned) {
		t.Errorf("error = %v, want ErrGameNotOwned", err)
	}
}

func TestGetProfile(t *testing.T) {
	t.Parallel()

	auth := newTestMinecraftAuth(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"f81d4fae7dec11d0a76500a0c91e6bf6","name":"Steve"}`))
	}))

	profile, err := auth.GetProfile(context.Background(), "mc-bearer")
	if err != nil {
		t.Fatalf("GetProfile() error: %v", err)
	}
	if profile.ID != "f81d4fae7dec11d0a76500a0c91e6bf6" || profile.Name != "Steve" {
		t.Errorf("profile = %+v", profile)
	}
}
