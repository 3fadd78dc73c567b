package language

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"eng", "English"},
		{"en", "English"},
		{"jpn", "Japanese"},
		{"und", "Unknown"},
		{"", "Unknown"},
		{"???", "???"},
	}
	for _, tt := range tests {
		got := DisplayName(tt.code)
		if tt.code == "???" {
			// Unparseable codes are passed through uppercased.
			if got != "???" {
				t.Errorf("DisplayName(%q) = %q", tt.code, got)
			}
			continue
		}
		if got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
