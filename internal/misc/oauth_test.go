package misc

import "testing"

func TestGenerateRandomState(t *testing.T) {
	t.Parallel()

	a, err := GenerateRandomState()
	if err != nil {
		t.Fatalf("GenerateRandomState() error: %v", err)
	}
	if len(a) != 32 {
		t.Errorf("state length = %d, want 32 hex characters", len(a))
	}
	b, err := GenerateRandomState()
	if err != nil {
		t.Fatalf("GenerateRandomState() error: %v", err)
	}
	if a == b {
		t.Error("two generated states are identical")
	}
}

func TestParseOAuthCallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantNil   bool
		wantErr   bool
		wantCode  string
		wantState string
		wantOAErr string
	}{
		{
			name:    "empty input keeps waiting",
			input:   "   ",
			wantNil: true,
		},
		{
			name:      "full callback URL",
			input:     "http://localhost:3000/callback?code=abc123&state=st-1",
			wantCode:  "abc123",
			wantState: "st-1",
		},
		{
			name:      "bare query string",
			input:     "?code=xyz&state=st-2",
			wantCode:  "xyz",
			wantState: "st-2",
		},
		{
			name:     "key value pairs without scheme",
			input:    "code=k1",
			wantCode: "k1",
		},
		{
			name:      "error callback",
			input:     "http://localhost:3000/callback?error=access_denied",
			wantOAErr: "access_denied",
		},
		{
			name:    "missing code and error",
			input:   "http://localhost:3000/callback?state=only",
			wantErr: true,
		},
		{
			name:    "unparseable input",
			input:   "not a url",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseOAuthCallback(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOAuthCallback(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOAuthCallback(%q) error: %v", tt.input, err)
			}
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ParseOAuthCallback(%q) = %+v, want nil", tt.input, got)
				}
				return
			}
			if got.Code != tt.wantCode || got.State != tt.wantState || got.Error != tt.wantOAErr {
				t.Errorf("ParseOAuthCallback(%q) = %+v, want code=%q state=%q error=%q",
					tt.input, got, tt.wantCode, tt.wantState, tt.wantOAErr)
			}
		})
	}
}
