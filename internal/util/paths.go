// Package util provides small filesystem and path helpers shared across the toolkit.
package util

import (
	"os"
	"path/filepath"
	"strings"
)

// illegalDirRunes are characters rejected by at least one supported filesystem.
const illegalDirRunes = `\/:*?"<>|`

// SanitizeDirName converts an arbitrary display name into a filesystem-legal
// directory name. Illegal characters are dropped, surrounding whitespace and
// trailing dots are trimmed. An empty result falls back to "instance".
func SanitizeDirName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(illegalDirRunes, r) || r < 0x20 {
			continue
		}
		b.WriteRune(r)
	}
	cleaned := strings.TrimSpace(b.String())
	cleaned = strings.TrimRight(cleaned, ". ")
	if cleaned == "" {
		return "instance"
	}
	return cleaned
}

// DefaultDataDir resolves the per-user data directory for the toolkit.
// It prefers the OS config directory and falls back to the working directory
// when that cannot be determined.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "frostline"
	}
	return filepath.Join(base, "frostline")
}

// EnsureDir creates dir (and parents) with owner-only permissions when it does
// not already exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o700)
}
