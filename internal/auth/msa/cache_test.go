package msa

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestTokenCacheStoreAndLoad(t *testing.T) {
	t.Parallel()

	cache := NewTokenCache(filepath.Join(t.TempDir(), "nested", "msa-auth.json"))
	raw := []byte(`{"token_type":"Bearer","expires_in":3600,"access_token":"at-1","refresh_token":"rt-1"}`)

	if err := cache.Store(raw); err != nil {
		t.Fatalf("Store() error: %v", err)
	}

	onDisk, err := os.ReadFile(cache.Path())
	if err != nil {
		t.Fatalf("reading cache file: %v", err)
	}
	record := gjson.ParseBytes(onDisk)
	if record.Get("access_token").String() != "at-1" {
		t.Error("raw response body not preserved in cache file")
	}
	if record.Get("cached_at").String() == "" {
		t.Error("cached_at stamp missing from cache file")
	}

	token, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if token.AccessToken != "at-1" || token.RefreshToken != "rt-1" {
		t.Errorf("Load() = %+v, want at-1/rt-1", token)
	}
	if token.Expiry.IsZero() {
		t.Error("expiry not derived from expires_in and cached_at")
	}
	if !token.Valid() {
		t.Error("freshly stored token reported invalid")
	}
}

func TestTokenCacheOverwrites(t *testing.T) {
	t.Parallel()

	cache := NewTokenCache(filepath.Join(t.TempDir(), "msa-auth.json"))
	if err := cache.Store([]byte(`{"access_token":"old","refresh_token":"old-rt","expires_in":10}`)); err != nil {
		t.Fatal(err)
	}
	if err := cache.Store([]byte(`{"access_token":"new","refresh_token":"new-rt","expires_in":10}`)); err != nil {
		t.Fatal(err)
	}

	token, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if token.AccessToken != "new" {
		t.Errorf("AccessToken = %q, cache was not overwritten", token.AccessToken)
	}
}

func TestTokenCacheLoadMissing(t *testing.T) {
	t.Parallel()

	cache := NewTokenCache(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := cache.Load(); !errors.Is(err, ErrNoCachedToken) {
		t.Errorf("Load() on missing file = %v, want ErrNoCachedToken", err)
	}
}

func TestTokenCacheLoadMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "msa-auth.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenCache(path).Load(); err == nil {
		t.Error("Load() on malformed record expected error")
	}
}

func TestTokenCacheClear(t *testing.T) {
	t.Parallel()

	cache := NewTokenCache(filepath.Join(t.TempDir(), "msa-auth.json"))
	if err := cache.Clear(); err != nil {
		t.Errorf("Clear() on absent file error: %v", err)
	}
	if err := cache.Store([]byte(`{"access_token":"x","expires_in":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := cache.Clear(); err != nil {
		t.Errorf("Clear() error: %v", err)
	}
	if _, err := cache.Load(); !errors.Is(err, ErrNoCachedToken) {
		t.Errorf("Load() after Clear() = %v, want ErrNoCachedToken", err)
	}
}

func TestTokenDataValid(t *testing.T) {
	t.Parallel()

	expired := &TokenData{AccessToken: "x", Expiry: time.Now().Add(-time.Minute)}
	if expired.Valid() {
		t.Error("expired token reported valid")
	}
	var nilToken *TokenData
	if nilToken.Valid() {
		t.Error("nil token reported valid")
	}
}
