package util

import "testing"

func TestSanitizeDirName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name kept", "Fabric 1.21", "Fabric 1.21"},
		{"illegal characters dropped", `My:Pack*?"<>|`, "MyPack"},
		{"path separators dropped", `mods\and/packs`, "modsandpacks"},
		{"surrounding whitespace trimmed", "  Skyblock  ", "Skyblock"},
		{"trailing dots trimmed", "All The Mods...", "All The Mods"},
		{"control characters dropped", "pack\x01\x02name", "packname"},
		{"empty input falls back", "", "instance"},
		{"only illegal input falls back", `\/:*`, "instance"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeDirName(tt.input); got != tt.expected {
				t.Errorf("SanitizeDirName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
