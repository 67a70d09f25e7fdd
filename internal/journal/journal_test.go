package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []Entry{
		{Key: "aaa.mp4", URL: "http://host/a.mp4", LocalPath: "/data/aaa.mp4", Outcome: OutcomeCompleted, SizeBytes: 2048},
		{Key: "bbb.mp4", URL: "http://host/b.mp4", Outcome: OutcomeFailed, Detail: "connection reset"},
		{Key: "aaa.mp4", URL: "http://host/a.mp4", Outcome: OutcomeSkipped},
	}
	for _, e := range entries {
		if err := s.Record(ctx, e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := s.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	// newest first
	if got[0].Key != "aaa.mp4" || got[0].Outcome != OutcomeSkipped {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Detail != "connection reset" {
		t.Errorf("detail = %q", got[1].Detail)
	}
	if got[2].SizeBytes != 2048 || got[2].LocalPath != "/data/aaa.mp4" {
		t.Errorf("oldest entry = %+v", got[2])
	}
	if got[0].CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestListByKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.Record(ctx, Entry{Key: "x", URL: "u", Outcome: OutcomeCompleted})
	s.Record(ctx, Entry{Key: "y", URL: "u", Outcome: OutcomeCompleted})
	s.Record(ctx, Entry{Key: "x", URL: "u", Outcome: OutcomeFailed})

	got, err := s.ListByKey(ctx, "x")
	if err != nil {
		t.Fatalf("ListByKey: %v", err)
	}
	if len(got) != 2 || got[0].Outcome != OutcomeFailed {
		t.Errorf("entries = %+v", got)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.Record(ctx, Entry{Key: "a", URL: "u", Outcome: OutcomeCompleted})
	s.Record(ctx, Entry{Key: "b", URL: "u", Outcome: OutcomeCompleted})
	s.Record(ctx, Entry{Key: "c", URL: "u", Outcome: OutcomeFailed})

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[OutcomeCompleted] != 2 || stats[OutcomeFailed] != 1 {
		t.Errorf("stats = %v", stats)
	}
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	s.Record(ctx, Entry{Key: "old", URL: "u", Outcome: OutcomeCompleted})

	pruned, err := s.Prune(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	got, _ := s.List(ctx, 10)
	if len(got) != 0 {
		t.Errorf("entries after prune = %+v", got)
	}
}
