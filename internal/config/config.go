// Package config provides configuration management for the Frostline toolkit.
// It handles loading and parsing the YAML configuration file and provides
// structured access to authentication, storage, and logging settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frostline-mc/frostline/internal/util"
)

// Default configuration values applied when the YAML file leaves them unset.
const (
	DefaultCallbackPort           = 3000
	DefaultCallbackTimeoutSeconds = 300
	DefaultCacheFileName          = "msa-auth.json"
	DefaultInstancesDir           = "instances"
)

// AuthConfig holds the Microsoft account authentication settings.
type AuthConfig struct {
	// ClientID is the Azure application (client) ID used for the OAuth flow.
	ClientID string `yaml:"client-id"`

	// CallbackPort is the local port the loopback listener binds during
	// interactive login. The redirect URI is derived from it.
	CallbackPort int `yaml:"callback-port"`

	// CacheFile is the path of the cached Microsoft token record. Relative
	// paths are resolved against DataDir.
	CacheFile string `yaml:"cache-file"`

	// CallbackTimeoutSeconds bounds how long an interactive login waits for
	// the browser redirect before giving up. Value is in seconds.
	CallbackTimeoutSeconds int `yaml:"callback-timeout-seconds"`
}

// CallbackTimeout returns the callback wait bound as a duration.
func (a *AuthConfig) CallbackTimeout() time.Duration {
	return time.Duration(a.CallbackTimeoutSeconds) * time.Second
}

// Config represents the application's configuration, loaded from a YAML file.
type Config struct {
	// DataDir is the root directory for toolkit state (token cache, logs).
	DataDir string `yaml:"data-dir"`

	// InstancesDir is the root directory holding per-instance subdirectories.
	// Relative paths are resolved against DataDir.
	InstancesDir string `yaml:"instances-dir"`

	// Debug enables verbose logging output.
	Debug bool `yaml:"debug"`

	// LoggingToFile switches log output from stdout to a rotating file under
	// <data-dir>/logs.
	LoggingToFile bool `yaml:"logging-to-file"`

	// Auth holds the Microsoft authentication settings.
	Auth AuthConfig `yaml:"auth"`
}

// LoadConfig reads and parses the configuration file at configFile.
func LoadConfig(configFile string) (*Config, error) {
	return LoadConfigOptional(configFile, false)
}

// LoadConfigOptional behaves like LoadConfig, but when optional is true a
// missing file yields a default configuration instead of an error.
func LoadConfigOptional(configFile string, optional bool) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(configFile)
	if err != nil {
		if optional && os.IsNotExist(err) {
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", configFile, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", configFile, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills unset fields with their defaults and resolves relative
// paths against the data directory.
func (c *Config) applyDefaults() {
	if c.DataDir == "" {
		c.DataDir = util.DefaultDataDir()
	}
	if c.InstancesDir == "" {
		c.InstancesDir = DefaultInstancesDir
	}
	if !filepath.IsAbs(c.InstancesDir) {
		c.InstancesDir = filepath.Join(c.DataDir, c.InstancesDir)
	}
	if c.Auth.CallbackPort == 0 {
		c.Auth.CallbackPort = DefaultCallbackPort
	}
	if c.Auth.CallbackTimeoutSeconds == 0 {
		c.Auth.CallbackTimeoutSeconds = DefaultCallbackTimeoutSeconds
	}
	if c.Auth.CacheFile == "" {
		c.Auth.CacheFile = DefaultCacheFileName
	}
	if !filepath.IsAbs(c.Auth.CacheFile) {
		c.Auth.CacheFile = filepath.Join(c.DataDir, c.Auth.CacheFile)
	}
}

// RedirectURI derives the loopback redirect URI from the callback port.
func (c *Config) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", c.Auth.CallbackPort)
}

// LogDir returns the directory used for rotating log files.
func (c *Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}
