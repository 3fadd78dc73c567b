package nav

import "testing"

func TestDescend(t *testing.T) {
	tests := []struct {
		child, want Signal
	}{
		{Continue, Continue},
		{ReturnToParent, Continue},
		{ReturnToRoot, ReturnToRoot},
	}
	for _, tt := range tests {
		if got := Descend(tt.child); got != tt.want {
			t.Errorf("Descend(%v) = %v, want %v", tt.child, got, tt.want)
		}
	}
}

func TestSignalString(t *testing.T) {
	if Continue.String() != "continue" || ReturnToRoot.String() != "return-to-root" {
		t.Error("unexpected signal names")
	}
	if Signal(99).String() != "unknown" {
		t.Error("out-of-range signal should stringify as unknown")
	}
}
