package main

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackman/internal/media"
	"trackman/internal/plan"
)

func testConsole(input string) (*console, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &console{in: bufio.NewReader(strings.NewReader(input)), out: out}, out
}

func TestBulkActionsCoverBothTrackTypes(t *testing.T) {
	type combo struct {
		trackType media.TrackType
		flags     plan.FlagSet
	}
	want := []combo{
		{media.TypeAudio, plan.FlagSet{Default: true}},
		{media.TypeAudio, plan.FlagSet{Forced: true}},
		{media.TypeAudio, plan.FlagSet{Default: true, Forced: true}},
		{media.TypeText, plan.FlagSet{Default: true}},
		{media.TypeText, plan.FlagSet{Forced: true}},
		{media.TypeText, plan.FlagSet{Default: true, Forced: true}},
	}

	if len(bulkActions) != len(want) {
		t.Fatalf("bulkActions has %d entries, want %d", len(bulkActions), len(want))
	}
	seen := make(map[combo]bool, len(bulkActions))
	for _, action := range bulkActions {
		seen[combo{action.trackType, action.flags}] = true
	}
	for _, c := range want {
		if !seen[c] {
			t.Errorf("no bulk action for %s %s", c.trackType, flagSummary(c.flags))
		}
	}
}

func TestBrowseShowsOffersRootDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Show.S01E01.mkv"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	// Back out immediately; the menu itself is what matters here.
	c, out := testConsole("0\n")
	browseShows(context.Background(), nil, c, root)

	if !strings.Contains(out.String(), "Use this directory (1 file)") {
		t.Errorf("media root holding files directly should be usable, menu was:\n%s", out.String())
	}
}
