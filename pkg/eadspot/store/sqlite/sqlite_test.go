package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/archivetools/eadspot/pkg/eadspot/store"
)

func TestSaveAndListRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	occs := []store.Occurrence{
		{ID: "01AAA", RunID: "run-1", Section: "Biography",
			SurfaceForm: "Jane Addams", URI: "uri-a", Kind: "person",
			Similarity: 0.99, Support: 512, RecognizedAt: at},
		{ID: "01AAB", RunID: "run-1", Section: "Container List",
			SurfaceForm: "Chicago", URI: "uri-c", Kind: "place",
			Similarity: 0.9, Support: 9000, RecognizedAt: at},
		{ID: "01AAC", RunID: "run-2", SurfaceForm: "Other", URI: "uri-o", RecognizedAt: at},
	}
	for _, o := range occs {
		if err := s.SaveOccurrence(ctx, o); err != nil {
			t.Fatalf("SaveOccurrence(%s): %v", o.ID, err)
		}
	}

	got, err := s.ListByRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("ListByRun: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(got))
	}
	if got[0].ID != "01AAA" || got[1].ID != "01AAB" {
		t.Errorf("order = %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].SurfaceForm != "Jane Addams" || got[0].Kind != "person" ||
		got[0].Similarity != 0.99 || got[0].Support != 512 {
		t.Errorf("occurrence 0 = %+v", got[0])
	}
	if !got[0].RecognizedAt.Equal(at) {
		t.Errorf("recognized_at = %v, want %v", got[0].RecognizedAt, at)
	}
}

func TestOpenTwiceKeepsSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SaveOccurrence(ctx, store.Occurrence{ID: "01AAA", RunID: "r", SurfaceForm: "x", URI: "u", RecognizedAt: time.Now()}); err != nil {
		t.Fatalf("SaveOccurrence: %v", err)
	}
	s.Close()

	s2, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.ListByRun(ctx, "r")
	if err != nil {
		t.Fatalf("ListByRun: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("got %d occurrences after reopen, want 1", len(got))
	}
}
