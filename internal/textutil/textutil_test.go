package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Breaking Bad", "Breaking Bad"},
		{"slashes", "AC/DC: Live", "AC-DC- Live"},
		{"removed chars", `What? "Show" <1>`, "What Show 1"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFileName(tt.in); got != tt.want {
				t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountNoun(t *testing.T) {
	if got := CountNoun(1, "file"); got != "1 file" {
		t.Errorf("got %q", got)
	}
	if got := CountNoun(3, "file"); got != "3 files" {
		t.Errorf("got %q", got)
	}
	if got := CountNoun(0, "track"); got != "0 tracks" {
		t.Errorf("got %q", got)
	}
}

func TestTernary(t *testing.T) {
	if got := Ternary(true, "a", "b"); got != "a" {
		t.Errorf("got %q", got)
	}
	if got := Ternary(false, 1, 2); got != 2 {
		t.Errorf("got %d", got)
	}
}
