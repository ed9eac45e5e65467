package supastore

import (
	"errors"
	"testing"
	"time"

	"plinkomarket/internal/leaderboard"
)

var _ leaderboard.Store = (*Store)(nil)

func TestNew_RequiresCredentials(t *testing.T) {
	if _, err := New("", "key", ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New() without url error = %v, want ErrNotConfigured", err)
	}
	if _, err := New("https://example.supabase.co", "", ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("New() without key error = %v, want ErrNotConfigured", err)
	}
}

func TestToEntry(t *testing.T) {
	e := toEntry(row{ID: "7", Username: "ABC", Score: 1200, UpdatedAt: "2026-03-01T12:30:00.5+00:00"})

	if e.ID != "7" || e.Username != "ABC" || e.Score != 1200 {
		t.Errorf("toEntry() = %+v", e)
	}
	want := time.Date(2026, 3, 1, 12, 30, 0, 500_000_000, time.UTC)
	if !e.UpdatedAt.Equal(want) {
		t.Errorf("UpdatedAt = %v, want %v", e.UpdatedAt, want)
	}
}

func TestParseTime_WithoutZone(t *testing.T) {
	got := parseTime("2026-03-01T12:30:00.123456")
	want := time.Date(2026, 3, 1, 12, 30, 0, 123_456_000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("parseTime() = %v, want %v", got, want)
	}
	if !parseTime("garbage").IsZero() {
		t.Error("parseTime(garbage) should be zero")
	}
}

func TestFromEntry_OmitsID(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	r := fromEntry(leaderboard.Entry{ID: "ignored", Username: "ABC", Score: 50, UpdatedAt: at})

	if r.ID != "" {
		t.Errorf("ID = %q, want empty", r.ID)
	}
	if r.UpdatedAt != "2026-03-01T11:00:00Z" {
		t.Errorf("UpdatedAt = %q", r.UpdatedAt)
	}
}
