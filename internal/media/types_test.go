package media

import "testing"

func TestParseTrackType(t *testing.T) {
	tests := []struct {
		in      string
		want    TrackType
		wantErr bool
	}{
		{"audio", TypeAudio, false},
		{"Audio", TypeAudio, false},
		{"subtitle", TypeText, false},
		{"text", TypeText, false},
		{"video", TypeVideo, false},
		{"general", TypeGeneral, false},
		{"menu", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTrackType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTrackType(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTrackType(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTrackType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSnapshotAppendAndTracksOf(t *testing.T) {
	var snap Snapshot
	id := int64(1)
	snap.Append(Track{Type: TypeAudio, TrackID: &id, Language: "eng"})
	snap.Append(Track{Type: TypeText, Language: "eng"})
	snap.Append(Track{Type: TypeVideo})
	snap.Append(Track{Type: "menu"}) // dropped

	if snap.TrackCount() != 3 {
		t.Errorf("TrackCount = %d, want 3", snap.TrackCount())
	}
	if len(snap.TracksOf(TypeAudio)) != 1 {
		t.Errorf("audio group = %d tracks", len(snap.TracksOf(TypeAudio)))
	}
	if len(snap.TracksOf(TypeText)) != 1 {
		t.Errorf("text group = %d tracks", len(snap.TracksOf(TypeText)))
	}
	if snap.TracksOf("menu") != nil {
		t.Error("unknown type should yield nil group")
	}
}

func TestHasTrackID(t *testing.T) {
	id := int64(2)
	if (Track{TrackID: &id}).HasTrackID() != true {
		t.Error("expected true with ID")
	}
	if (Track{}).HasTrackID() {
		t.Error("expected false without ID")
	}
}
