package mediainfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"trackman/internal/media"
)

type fakeExecutor struct {
	output []byte
	err    error
	calls  int
}

func (f *fakeExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	f.calls++
	return f.output, f.err
}

const sampleOutput = `{
  "media": {
    "track": [
      {"@type": "General", "Duration": "1405.120", "FileSize": "524288000"},
      {"@type": "Video", "ID": "1", "Format": "HEVC", "Width": "1920", "Height": "1080"},
      {"@type": "Audio", "ID": "2", "Format": "AAC", "Language": "en", "Channels": "6", "Default": "Yes"},
      {"@type": "Audio", "ID": "3", "Format": "AAC", "Language": "ja", "Title": "Commentary"},
      {"@type": "Text", "ID": "4", "Format": "UTF-8", "Language": "en", "Forced": "Yes"},
      {"@type": "Menu"}
    ]
  }
}`

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspectNormalizesTracks(t *testing.T) {
	path := touch(t, t.TempDir(), "episode.mkv")
	exec := &fakeExecutor{output: []byte(sampleOutput)}
	inspector := New("mediainfo", nil, WithExecutor(exec))

	snap, err := inspector.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if len(snap.General) != 1 || len(snap.Video) != 1 || len(snap.Audio) != 2 || len(snap.Text) != 1 {
		t.Fatalf("unexpected grouping: %d/%d/%d/%d",
			len(snap.General), len(snap.Video), len(snap.Audio), len(snap.Text))
	}

	// General track has no ID; it must still be present but unmutatable.
	if snap.General[0].HasTrackID() {
		t.Error("general track should have no track ID")
	}
	// Language defaults to "und" when the probe omits it.
	if snap.General[0].Language != "und" {
		t.Errorf("general language = %q, want und", snap.General[0].Language)
	}

	audio := snap.Audio[0]
	if !audio.HasTrackID() || *audio.TrackID != 2 {
		t.Errorf("audio track ID = %v", audio.TrackID)
	}
	if !audio.Default || audio.Forced {
		t.Errorf("audio flags = default:%v forced:%v", audio.Default, audio.Forced)
	}

	commentary := snap.Audio[1]
	if commentary.Title != "Commentary" {
		t.Errorf("commentary title = %q", commentary.Title)
	}
	if commentary.Default || commentary.Forced {
		t.Error("absent flags must default to false")
	}

	text := snap.Text[0]
	if !text.Forced {
		t.Error("text track should be forced")
	}
}

func TestInspectSkipsMenuTracks(t *testing.T) {
	path := touch(t, t.TempDir(), "episode.mkv")
	inspector := New("", nil, WithExecutor(&fakeExecutor{output: []byte(sampleOutput)}))

	snap, err := inspector.Inspect(context.Background(), path)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if snap.TrackCount() != 5 {
		t.Errorf("TrackCount = %d, want 5 (menu dropped)", snap.TrackCount())
	}
}

func TestInspectMissingFile(t *testing.T) {
	exec := &fakeExecutor{output: []byte(sampleOutput)}
	inspector := New("mediainfo", nil, WithExecutor(exec))

	_, err := inspector.Inspect(context.Background(), filepath.Join(t.TempDir(), "absent.mkv"))
	if !errors.Is(err, media.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
	if exec.calls != 0 {
		t.Error("executor should not run for a missing file")
	}
}

func TestInspectToolFailure(t *testing.T) {
	path := touch(t, t.TempDir(), "episode.mkv")
	inspector := New("mediainfo", nil, WithExecutor(&fakeExecutor{err: errors.New("boom")}))

	_, err := inspector.Inspect(context.Background(), path)
	if !errors.Is(err, media.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}

func TestInspectUnparseableOutput(t *testing.T) {
	path := touch(t, t.TempDir(), "episode.mkv")
	inspector := New("mediainfo", nil, WithExecutor(&fakeExecutor{output: []byte("garbage")}))

	_, err := inspector.Inspect(context.Background(), path)
	if !errors.Is(err, media.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}
