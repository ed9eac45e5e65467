package leaderboard

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type failingStore struct {
	calls int
}

var errDown = errors.New("backend down")

func (f *failingStore) FetchTop(ctx context.Context, n int) ([]Entry, error) {
	f.calls++
	return nil, errDown
}

func (f *failingStore) FindByUsername(ctx context.Context, username string) (*Entry, error) {
	f.calls++
	return nil, errDown
}

func (f *failingStore) Update(ctx context.Context, id string, score int, at time.Time) error {
	f.calls++
	return errDown
}

func (f *failingStore) Insert(ctx context.Context, e Entry) error {
	f.calls++
	return errDown
}

func newLocalBoard() (*Board, *MemoryStore) {
	local := NewMemoryStore("")
	b := NewBoard(nil, local)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return b, local
}

func TestBoard_SubmitInsertsNewUser(t *testing.T) {
	b, local := newLocalBoard()
	ctx := context.Background()

	if err := b.Submit(ctx, "ABC", 100); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if local.Len() != 1 {
		t.Fatalf("entries = %d, want 1", local.Len())
	}
	e, _ := local.FindByUsername(ctx, "ABC")
	if e == nil || e.Score != 100 {
		t.Errorf("entry = %+v, want score 100", e)
	}
}

func TestBoard_SubmitKeepsBestScore(t *testing.T) {
	b, local := newLocalBoard()
	ctx := context.Background()

	b.Submit(ctx, "ABC", 100)
	first, _ := local.FindByUsername(ctx, "ABC")

	b.Submit(ctx, "ABC", 80)
	e, _ := local.FindByUsername(ctx, "ABC")
	if e.Score != 100 {
		t.Errorf("score after lower submit = %d, want 100", e.Score)
	}
	if !e.UpdatedAt.Equal(first.UpdatedAt) {
		t.Error("timestamp should not change for a lower score")
	}

	b.Submit(ctx, "ABC", 100)
	e, _ = local.FindByUsername(ctx, "ABC")
	if !e.UpdatedAt.Equal(first.UpdatedAt) {
		t.Error("timestamp should not change for an equal score")
	}

	b.Submit(ctx, "ABC", 150)
	e, _ = local.FindByUsername(ctx, "ABC")
	if e.Score != 150 {
		t.Errorf("score after higher submit = %d, want 150", e.Score)
	}
	if !e.UpdatedAt.After(first.UpdatedAt) {
		t.Error("timestamp should be refreshed for a new best")
	}
	if local.Len() != 1 {
		t.Errorf("entries = %d, want 1", local.Len())
	}
}

func TestBoard_SubmitIgnoresNonPositive(t *testing.T) {
	b, local := newLocalBoard()
	ctx := context.Background()

	b.Submit(ctx, "ABC", 0)
	b.Submit(ctx, "XYZ", -10)
	if local.Len() != 0 {
		t.Errorf("entries = %d, want 0", local.Len())
	}
}

func TestBoard_UsernameIsCaseSensitive(t *testing.T) {
	b, local := newLocalBoard()
	ctx := context.Background()

	b.Submit(ctx, "ABC", 100)
	b.Submit(ctx, "abc", 50)
	if local.Len() != 2 {
		t.Errorf("entries = %d, want 2", local.Len())
	}
}

func TestBoard_TopSortsAndTruncates(t *testing.T) {
	b, _ := newLocalBoard()
	ctx := context.Background()

	scores := map[string]int{"AAA": 300, "BBB": 700, "CCC": 100, "DDD": 500, "EEE": 900, "FFF": 200, "GGG": 400}
	for _, name := range []string{"AAA", "BBB", "CCC", "DDD", "EEE", "FFF", "GGG"} {
		b.Submit(ctx, name, scores[name])
	}

	top := b.Top(ctx, 5)
	if len(top) != 5 {
		t.Fatalf("Top(5) returned %d entries, want 5", len(top))
	}
	want := []string{"EEE", "BBB", "DDD", "GGG", "AAA"}
	for i, name := range want {
		if top[i].Username != name {
			t.Errorf("rank %d = %s, want %s", i+1, top[i].Username, name)
		}
	}
}

func TestBoard_TopTiesFavourEarlierScore(t *testing.T) {
	b, _ := newLocalBoard()
	ctx := context.Background()

	b.Submit(ctx, "ZED", 500)
	b.Submit(ctx, "ACE", 500)

	top := b.Top(ctx, 5)
	if top[0].Username != "ZED" || top[1].Username != "ACE" {
		t.Errorf("tie order = %s, %s; want ZED, ACE", top[0].Username, top[1].Username)
	}
}

func TestBoard_TopDefaultsToFive(t *testing.T) {
	b, _ := newLocalBoard()
	if got := len(b.Top(context.Background(), 0)); got != DefaultTop {
		t.Errorf("Top(0) returned %d entries, want %d", got, DefaultTop)
	}
}

func TestBoard_EmptyLocalShowsSeeds(t *testing.T) {
	b, local := newLocalBoard()

	top := b.Top(context.Background(), 5)
	if len(top) != len(SeedEntries) {
		t.Fatalf("Top() on empty store = %d entries, want %d seeds", len(top), len(SeedEntries))
	}
	if top[0].Username != "DOG" {
		t.Errorf("first seed = %s, want DOG", top[0].Username)
	}
	if local.Len() != 0 {
		t.Error("seeds must not be written to the store")
	}
}

func TestBoard_RemoteFailureIsSwallowed(t *testing.T) {
	remote := &failingStore{}
	local := NewMemoryStore("")
	b := NewBoard(remote, local)

	var reported error
	b.OnSubmitError = func(err error) { reported = err }

	err := b.Submit(context.Background(), "ABC", 100)
	if !errors.Is(err, errDown) {
		t.Errorf("Submit() error = %v, want wrapped errDown", err)
	}
	if !errors.Is(reported, errDown) {
		t.Errorf("OnSubmitError got %v", reported)
	}
	if remote.calls != 1 {
		t.Errorf("remote calls = %d, want 1 (no retry)", remote.calls)
	}
	if local.Len() != 0 {
		t.Error("remote failure should not write locally")
	}
}

func TestBoard_RemoteReadFallsBackToLocal(t *testing.T) {
	b := NewBoard(&failingStore{}, NewMemoryStore(""))

	top := b.Top(context.Background(), 5)
	if len(top) != len(SeedEntries) {
		t.Errorf("fallback Top() = %d entries, want seeds", len(top))
	}
}

func TestBoard_RemotePath(t *testing.T) {
	remote := NewMemoryStore("")
	remote.Insert(context.Background(), Entry{Username: "OLD", Score: 10})
	local := NewMemoryStore("")
	b := NewBoard(remote, local)
	ctx := context.Background()

	b.Submit(ctx, "ABC", 100)
	b.Submit(ctx, "ABC", 80)

	if !b.Remote() {
		t.Error("Remote() should be true")
	}
	e, _ := remote.FindByUsername(ctx, "ABC")
	if e == nil || e.Score != 100 {
		t.Errorf("remote entry = %+v, want score 100", e)
	}
	if local.Len() != 0 {
		t.Error("local store should be untouched when remote works")
	}
	top := b.Top(ctx, 5)
	if len(top) != 2 || top[0].Username != "ABC" {
		t.Errorf("Top() = %+v, want ABC first of 2", top)
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestBoard_LocalWriteFailureIsLoggedAndUndone(t *testing.T) {
	logs := captureLog(t)
	path := filepath.Join(t.TempDir(), "missing-dir", "leaderboard.json")
	local := NewMemoryStore(path)
	b := NewBoard(nil, local)

	var reported error
	b.OnSubmitError = func(err error) { reported = err }

	err := b.Submit(context.Background(), "ABC", 100)
	if err == nil {
		t.Fatal("Submit() should fail when the file cannot be written")
	}
	if reported == nil {
		t.Error("OnSubmitError should see local failures")
	}
	if !strings.Contains(logs.String(), "score submission failed") || !strings.Contains(logs.String(), `"backend":"local"`) {
		t.Errorf("failure not logged: %s", logs.String())
	}
	if local.Len() != 0 {
		t.Errorf("entries = %d, want 0 after a failed write", local.Len())
	}

	if err := b.Submit(context.Background(), "ABC", 100); err == nil {
		t.Error("second Submit() should fail again, not report success")
	}
}
