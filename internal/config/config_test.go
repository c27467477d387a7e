package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "frostline.yaml")
	content := `
data-dir: ` + dir + `
debug: true
auth:
  client-id: 11111111-2222-3333-4444-555555555555
  callback-port: 4123
  callback-timeout-seconds: 90
`
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Auth.ClientID != "11111111-2222-3333-4444-555555555555" {
		t.Errorf("ClientID = %q", cfg.Auth.ClientID)
	}
	if cfg.Auth.CallbackPort != 4123 {
		t.Errorf("CallbackPort = %d, want 4123", cfg.Auth.CallbackPort)
	}
	if cfg.Auth.CallbackTimeout() != 90*time.Second {
		t.Errorf("CallbackTimeout() = %v, want 90s", cfg.Auth.CallbackTimeout())
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if want := filepath.Join(dir, DefaultCacheFileName); cfg.Auth.CacheFile != want {
		t.Errorf("CacheFile = %q, want %q", cfg.Auth.CacheFile, want)
	}
	if want := filepath.Join(dir, DefaultInstancesDir); cfg.InstancesDir != want {
		t.Errorf("InstancesDir = %q, want %q", cfg.InstancesDir, want)
	}
	if want := "http://localhost:4123/callback"; cfg.RedirectURI() != want {
		t.Errorf("RedirectURI() = %q, want %q", cfg.RedirectURI(), want)
	}
}

func TestLoadConfigOptionalMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigOptional(filepath.Join(t.TempDir(), "absent.yaml"), true)
	if err != nil {
		t.Fatalf("LoadConfigOptional() error: %v", err)
	}
	if cfg.Auth.CallbackPort != DefaultCallbackPort {
		t.Errorf("CallbackPort = %d, want default %d", cfg.Auth.CallbackPort, DefaultCallbackPort)
	}
	if cfg.Auth.CallbackTimeoutSeconds != DefaultCallbackTimeoutSeconds {
		t.Errorf("CallbackTimeoutSeconds = %d, want default %d", cfg.Auth.CallbackTimeoutSeconds, DefaultCallbackTimeoutSeconds)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir not defaulted")
	}
}

func TestLoadConfigMissingFileFatal(t *testing.T) {
	t.Parallel()

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() on missing file expected error")
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("auth: [not, a, mapping"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() on malformed YAML expected error")
	}
}
