package archive

import (
	"errors"
	"testing"
)

func TestCommitAndHistory(t *testing.T) {
	svc := New(t.TempDir())

	first, err := svc.Commit("doc_1", []byte(`{"name":"SoAW","rev":1}`), "Dana", "Create document")
	if err != nil {
		t.Fatalf("first Commit() error = %v", err)
	}
	if first.Hash == "" || first.Author != "Dana" {
		t.Errorf("unexpected commit info: %+v", first)
	}

	second, err := svc.Commit("doc_1", []byte(`{"name":"SoAW","rev":2}`), "Priya", "Save document")
	if err != nil {
		t.Fatalf("second Commit() error = %v", err)
	}
	if second.Hash == first.Hash {
		t.Error("changed snapshot should produce a new commit")
	}

	history, err := svc.History("doc_1", 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	if history[0].Hash != second.Hash || history[1].Hash != first.Hash {
		t.Errorf("history not newest first: %+v", history)
	}
}

func TestCommitSkipsUnchangedSnapshot(t *testing.T) {
	svc := New(t.TempDir())

	snapshot := []byte(`{"name":"SoAW"}`)
	first, err := svc.Commit("doc_1", snapshot, "Dana", "Create document")
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	repeat, err := svc.Commit("doc_1", snapshot, "Dana", "Save document")
	if err != nil {
		t.Fatalf("repeat Commit() error = %v", err)
	}
	if repeat.Hash != first.Hash {
		t.Error("identical snapshot should not create a new commit")
	}

	history, err := svc.History("doc_1", 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected a single history entry, got %d", len(history))
	}
}

func TestHistoryLimit(t *testing.T) {
	svc := New(t.TempDir())
	for i, body := range []string{`{"v":1}`, `{"v":2}`, `{"v":3}`} {
		if _, err := svc.Commit("doc_1", []byte(body), "Dana", "Save document"); err != nil {
			t.Fatalf("Commit(%d) error = %v", i, err)
		}
	}

	history, err := svc.History("doc_1", 2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected limit to cap history at 2, got %d", len(history))
	}
}

func TestHistoryMissingArchive(t *testing.T) {
	svc := New(t.TempDir())
	if _, err := svc.History("doc_missing", 10); !errors.Is(err, ErrNoArchive) {
		t.Errorf("History() error = %v, want ErrNoArchive", err)
	}
}

func TestTagRevisionIdempotent(t *testing.T) {
	svc := New(t.TempDir())
	if _, err := svc.Commit("doc_1", []byte(`{"v":1}`), "Dana", "Create document"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if err := svc.TagRevision("doc_1", 1); err != nil {
		t.Fatalf("TagRevision() error = %v", err)
	}
	if err := svc.TagRevision("doc_1", 1); err != nil {
		t.Errorf("repeat TagRevision() error = %v", err)
	}
	if err := svc.TagRevision("doc_missing", 1); !errors.Is(err, ErrNoArchive) {
		t.Errorf("TagRevision() on missing archive = %v, want ErrNoArchive", err)
	}
}

func TestSnapshotReturnsHeadContent(t *testing.T) {
	svc := New(t.TempDir())
	if _, err := svc.Commit("doc_1", []byte(`{"v":1}`), "Dana", "Create document"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if _, err := svc.Commit("doc_1", []byte(`{"v":2}`), "Dana", "Save document"); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	snapshot, err := svc.Snapshot("doc_1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if string(snapshot) != "{\"v\":2}\n" {
		t.Errorf("unexpected head snapshot %q", snapshot)
	}

	if _, err := svc.Snapshot("doc_missing"); !errors.Is(err, ErrNoArchive) {
		t.Errorf("Snapshot() on missing archive = %v, want ErrNoArchive", err)
	}
}
