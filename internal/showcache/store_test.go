package showcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackman/internal/logging"
	"trackman/internal/media"
)

type fakeInspector struct {
	snap  media.Snapshot
	err   error
	calls int
}

func (f *fakeInspector) Inspect(ctx context.Context, path string) (media.Snapshot, error) {
	f.calls++
	return f.snap, f.err
}

func trackID(id int64) *int64 { return &id }

func sampleSnapshot() media.Snapshot {
	return media.Snapshot{
		Audio: []media.Track{
			{TrackID: trackID(2), Type: media.TypeAudio, Language: "en", Default: true},
		},
		Text: []media.Track{
			{TrackID: trackID(3), Type: media.TypeText, Language: "en", Title: "Signs"},
		},
	}
}

func TestParseSeasonEpisode(t *testing.T) {
	tests := []struct {
		name            string
		season, episode int
		ok              bool
	}{
		{"Show.S02E05.mkv", 2, 5, true},
		{"show s1e10 final.mkv", 1, 10, true},
		{"Movie (2019).mkv", 0, 0, false},
	}
	for _, tt := range tests {
		season, episode, ok := ParseSeasonEpisode(tt.name)
		if season != tt.season || episode != tt.episode || ok != tt.ok {
			t.Errorf("ParseSeasonEpisode(%q) = %d/%d/%v, want %d/%d/%v",
				tt.name, season, episode, ok, tt.season, tt.episode, tt.ok)
		}
	}
}

func TestEpisodeKeysFallBackToFilename(t *testing.T) {
	seasonKey, episodeKey := episodeKeys("Special Feature.mkv")
	if seasonKey != NoSeasonKey || episodeKey != "Special Feature.mkv" {
		t.Errorf("keys = %q/%q", seasonKey, episodeKey)
	}
}

func TestSaveOrdersKeysNumerically(t *testing.T) {
	store := NewStore(t.TempDir(), nil, logging.NewNop())

	cache := ShowCache{}
	for _, name := range []string{
		"Show.S02E01.mkv", "Show.S10E01.mkv", "Show.S01E10.mkv", "Show.S01E02.mkv",
	} {
		cache.Set(name, Episode{Filename: name})
	}
	if err := store.Save("Show", cache); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(store.Path("Show"))
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	for _, pair := range [][2]string{
		{`"Season 1"`, `"Season 2"`},
		{`"Season 2"`, `"Season 10"`},
		{`"s01e02"`, `"s01e10"`},
	} {
		if strings.Index(text, pair[0]) > strings.Index(text, pair[1]) {
			t.Errorf("%s should precede %s in saved document", pair[0], pair[1])
		}
	}
}

func TestRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), nil, logging.NewNop())

	cache := ShowCache{}
	cache.Set("Show.S01E01.mkv", Episode{Filename: "Show.S01E01.mkv", MediaInfo: sampleSnapshot()})
	if err := store.Save("Show", cache); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snap, ok := store.LookupEpisode("Show", "Show.S01E01.mkv")
	if !ok {
		t.Fatal("episode missing after round trip")
	}
	if len(snap.Audio) != 1 || *snap.Audio[0].TrackID != 2 || !snap.Audio[0].Default {
		t.Errorf("audio track mangled: %+v", snap.Audio)
	}
	if len(snap.Text) != 1 || snap.Text[0].Title != "Signs" {
		t.Errorf("text track mangled: %+v", snap.Text)
	}
}

func TestLoadMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil, logging.NewNop())

	if got := store.Load("Absent"); got.EpisodeCount() != 0 {
		t.Errorf("missing cache should be empty, got %d episodes", got.EpisodeCount())
	}

	if err := os.WriteFile(store.Path("Broken"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := store.Load("Broken"); got.EpisodeCount() != 0 {
		t.Errorf("corrupt cache should be empty, got %d episodes", got.EpisodeCount())
	}
}

func TestUpdateEpisodeInspectsAndPersists(t *testing.T) {
	dir := t.TempDir()
	inspector := &fakeInspector{snap: sampleSnapshot()}
	store := NewStore(dir, inspector, logging.NewNop())

	snap, err := store.UpdateEpisode(context.Background(), "Show", "/media/Show/Show.S01E01.mkv")
	if err != nil {
		t.Fatalf("UpdateEpisode failed: %v", err)
	}
	if inspector.calls != 1 {
		t.Errorf("inspector calls = %d, want 1", inspector.calls)
	}
	if len(snap.Audio) != 1 {
		t.Errorf("returned snapshot mangled: %+v", snap)
	}

	if _, ok := store.LookupEpisode("Show", "Show.S01E01.mkv"); !ok {
		t.Error("update did not persist the episode")
	}
}

func TestUpdateEpisodeProbeFailure(t *testing.T) {
	inspector := &fakeInspector{err: media.ErrProbe}
	store := NewStore(t.TempDir(), inspector, logging.NewNop())

	_, err := store.UpdateEpisode(context.Background(), "Show", "/media/Show/x.mkv")
	if !errors.Is(err, media.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
	if _, statErr := os.Stat(store.Path("Show")); !os.IsNotExist(statErr) {
		t.Error("failed inspection must not create a cache document")
	}
}

func TestSnapshotForUsesCacheOnHit(t *testing.T) {
	inspector := &fakeInspector{snap: sampleSnapshot()}
	store := NewStore(t.TempDir(), inspector, logging.NewNop())

	cache := ShowCache{}
	cache.Set("Show.S01E01.mkv", Episode{Filename: "Show.S01E01.mkv", MediaInfo: sampleSnapshot()})
	if err := store.Save("Show", cache); err != nil {
		t.Fatal(err)
	}

	if _, err := store.SnapshotFor(context.Background(), "Show", "/m/Show.S01E01.mkv"); err != nil {
		t.Fatalf("SnapshotFor failed: %v", err)
	}
	if inspector.calls != 0 {
		t.Errorf("cache hit should not inspect, calls = %d", inspector.calls)
	}

	if _, err := store.SnapshotFor(context.Background(), "Show", "/m/Show.S01E02.mkv"); err != nil {
		t.Fatalf("SnapshotFor miss failed: %v", err)
	}
	if inspector.calls != 1 {
		t.Errorf("cache miss should inspect once, calls = %d", inspector.calls)
	}
}

func TestBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil, logging.NewNop())

	if store.HasBackup("Show") {
		t.Error("HasBackup should be false with no backups")
	}
	// Backing up a show with no cache is a no-op, not an error.
	if err := store.Backup("Show"); err != nil {
		t.Fatalf("Backup of absent cache failed: %v", err)
	}
	if store.HasBackup("Show") {
		t.Error("no-op backup must not create a file")
	}

	cache := ShowCache{}
	cache.Set("Show.S01E01.mkv", Episode{Filename: "Show.S01E01.mkv", MediaInfo: sampleSnapshot()})
	if err := store.Save("Show", cache); err != nil {
		t.Fatal(err)
	}
	if err := store.Backup("Show"); err != nil {
		t.Fatalf("Backup failed: %v", err)
	}
	if !store.HasBackup("Show") {
		t.Fatal("backup not detected")
	}

	// Wipe the live document, then restore it from the backup.
	if err := os.WriteFile(store.Path("Show"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.Restore("Show"); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if _, ok := store.LookupEpisode("Show", "Show.S01E01.mkv"); !ok {
		t.Error("restored cache missing episode")
	}
}

func TestRestoreWithoutBackup(t *testing.T) {
	store := NewStore(t.TempDir(), nil, logging.NewNop())
	if err := store.Restore("Show"); !errors.Is(err, ErrCacheIO) {
		t.Fatalf("expected ErrCacheIO, got %v", err)
	}
}

func TestPathSanitizesShowName(t *testing.T) {
	store := NewStore("/cache", nil, logging.NewNop())
	path := store.Path(`What / If?`)
	base := filepath.Base(path)
	if strings.ContainsAny(base, `/\:*?"<>|`) {
		t.Errorf("unsanitized cache filename %q", base)
	}
}
