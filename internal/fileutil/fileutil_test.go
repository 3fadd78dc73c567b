package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.json")
	dst := filepath.Join(dir, "dst.json")

	content := []byte(`{"Season 1":{}}`)
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	err := CopyFile(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestListMKVFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.mkv", "a.MKV", "notes.txt", "c.mp4"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "extras.mkv"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := ListMKVFiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.MKV", "b.mkv"}
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("got %v, want %v", files, want)
		}
	}
}

func TestListSubdirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Season 2", "Season 1"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "file.mkv"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := ListSubdirectories(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(dirs) != 2 || dirs[0] != "Season 1" || dirs[1] != "Season 2" {
		t.Fatalf("got %v", dirs)
	}
}
