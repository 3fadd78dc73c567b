package history

import (
	"context"
	"path/filepath"
	"testing"

	"trackman/internal/logging"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"), logging.NewNop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{OperationID: "op-1", Show: "Show A", FilePath: "/m/a/e01.mkv", TrackID: 2, Flag: "flag-default", Value: true, Outcome: OutcomeApplied},
		{OperationID: "op-1", Show: "Show A", FilePath: "/m/a/e02.mkv", TrackID: 2, Flag: "flag-default", Value: true, Outcome: OutcomeFailed, Detail: "corrupt element"},
	}
	if err := store.RecordBatch(ctx, entries); err != nil {
		t.Fatalf("RecordBatch failed: %v", err)
	}

	got, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent = %d entries, want 2", len(got))
	}
	// Newest first.
	if got[0].FilePath != "/m/a/e02.mkv" || got[0].Outcome != OutcomeFailed || got[0].Detail != "corrupt element" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Value != true || got[1].Outcome != OutcomeApplied {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("timestamp not stamped")
	}
}

func TestForShowFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.RecordBatch(ctx, []Entry{
		{OperationID: "op-1", Show: "Show A", FilePath: "/m/a/e01.mkv", TrackID: 2, Flag: "flag-forced", Outcome: OutcomeApplied},
		{OperationID: "op-2", Show: "Show B", FilePath: "/m/b/e01.mkv", TrackID: 3, Flag: "flag-forced", Outcome: OutcomeDryRun},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := store.ForShow(ctx, "Show B", 10)
	if err != nil {
		t.Fatalf("ForShow failed: %v", err)
	}
	if len(got) != 1 || got[0].Show != "Show B" || got[0].Outcome != OutcomeDryRun {
		t.Fatalf("ForShow = %+v", got)
	}
}

func TestRecordBatchEmptyIsNoop(t *testing.T) {
	store := openTestStore(t)
	if err := store.RecordBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch failed: %v", err)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.db")

	store, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Record(context.Background(), Entry{
		OperationID: "op-1", Show: "Show A", FilePath: "/m/a/e01.mkv",
		TrackID: 2, Flag: "flag-default", Outcome: OutcomeApplied,
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path, logging.NewNop())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Recent(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("entries lost across reopen: %d", len(got))
	}
}
