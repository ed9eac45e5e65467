package leaderboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestMemoryStore_InsertAssignsID(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()

	if err := s.Insert(ctx, Entry{Username: "ABC", Score: 10}); err != nil {
		t.Fatal(err)
	}
	e, err := s.FindByUsername(ctx, "ABC")
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == "" {
		t.Error("Insert should assign an ID")
	}

	if err := s.Insert(ctx, Entry{Username: "ABC", Score: 20}); err == nil {
		t.Error("second Insert for the same username should fail")
	}
}

func TestMemoryStore_FindByUsername_NotFound(t *testing.T) {
	s := NewMemoryStore("")
	e, err := s.FindByUsername(context.Background(), "NOP")
	if err != nil || e != nil {
		t.Errorf("FindByUsername() = %+v, %v; want nil, nil", e, err)
	}
}

func TestMemoryStore_FindReturnsCopy(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()
	s.Insert(ctx, Entry{Username: "ABC", Score: 10})

	e, _ := s.FindByUsername(ctx, "ABC")
	e.Score = 9999

	again, _ := s.FindByUsername(ctx, "ABC")
	if again.Score != 10 {
		t.Errorf("stored score = %d, want 10", again.Score)
	}
}

func TestMemoryStore_UpdateUnknownID(t *testing.T) {
	s := NewMemoryStore("")
	if err := s.Update(context.Background(), "missing", 10, time.Now()); err == nil {
		t.Error("Update() of unknown ID should fail")
	}
}

func TestMemoryStore_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	ctx := context.Background()

	s := NewMemoryStore(path)
	s.Insert(ctx, Entry{Username: "ABC", Score: 100})
	e, _ := s.FindByUsername(ctx, "ABC")
	s.Update(ctx, e.ID, 250, time.Now())

	reloaded := NewMemoryStore(path)
	got, _ := reloaded.FindByUsername(ctx, "ABC")
	if got == nil || got.Score != 250 {
		t.Fatalf("reloaded entry = %+v, want score 250", got)
	}
	if got.ID != e.ID {
		t.Errorf("reloaded ID = %q, want %q", got.ID, e.ID)
	}
}

func TestMemoryStore_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	if err := writeFile(path, "not json"); err != nil {
		t.Fatal(err)
	}
	s := NewMemoryStore(path)
	if s.Len() != 0 {
		t.Errorf("entries = %d, want 0", s.Len())
	}
}

func TestRank(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []Entry{
		{Username: "BBB", Score: 100, UpdatedAt: t0},
		{Username: "AAA", Score: 100, UpdatedAt: t0},
		{Username: "CCC", Score: 100, UpdatedAt: t0.Add(-time.Minute)},
		{Username: "DDD", Score: 300, UpdatedAt: t0},
	}
	Rank(entries)

	want := []string{"DDD", "CCC", "AAA", "BBB"}
	for i, name := range want {
		if entries[i].Username != name {
			t.Errorf("rank %d = %s, want %s", i+1, entries[i].Username, name)
		}
	}
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestMemoryStore_UpdateRolledBackOnWriteFailure(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s := NewMemoryStore(filepath.Join(dir, "leaderboard.json"))
	s.Insert(ctx, Entry{Username: "ABC", Score: 100})
	e, _ := s.FindByUsername(ctx, "ABC")

	s.path = filepath.Join(dir, "missing-dir", "leaderboard.json")
	if err := s.Update(ctx, e.ID, 500, time.Now()); err == nil {
		t.Fatal("Update() should fail when the file cannot be written")
	}

	got, _ := s.FindByUsername(ctx, "ABC")
	if got.Score != 100 || !got.UpdatedAt.Equal(e.UpdatedAt) {
		t.Errorf("entry after failed update = %+v, want unchanged", got)
	}
}
