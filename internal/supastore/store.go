// Package supastore keeps the leaderboard in a hosted Supabase table.
package supastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plinkomarket/internal/leaderboard"

	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"
)

var ErrNotConfigured = errors.New("supabase url and key are required")

// row mirrors the leaderboard table columns.
type row struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	UpdatedAt string `json:"updated_at"`
}

type scoreUpdate struct {
	Score     int    `json:"score"`
	UpdatedAt string `json:"updated_at"`
}

type Store struct {
	client *supa.Client
	table  string
}

func New(url, key, table string) (*Store, error) {
	if url == "" || key == "" {
		return nil, ErrNotConfigured
	}
	if table == "" {
		table = "leaderboard"
	}
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	return &Store{client: client, table: table}, nil
}

func (s *Store) FetchTop(ctx context.Context, n int) ([]leaderboard.Entry, error) {
	var rows []row
	_, err := s.client.From(s.table).
		Select("id,username,score,updated_at", "", false).
		Order("score", &postgrest.OrderOpts{Ascending: false}).
		Order("updated_at", &postgrest.OrderOpts{Ascending: true}).
		Limit(n, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("fetching top %d: %w", n, err)
	}
	return toEntries(rows), nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (*leaderboard.Entry, error) {
	var rows []row
	_, err := s.client.From(s.table).
		Select("id,username,score,updated_at", "", false).
		Eq("username", username).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("finding %s: %w", username, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	e := toEntry(rows[0])
	return &e, nil
}

func (s *Store) Update(ctx context.Context, id string, score int, at time.Time) error {
	_, _, err := s.client.From(s.table).
		Update(scoreUpdate{Score: score, UpdatedAt: formatTime(at)}, "minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("updating %s: %w", id, err)
	}
	return nil
}

func (s *Store) Insert(ctx context.Context, e leaderboard.Entry) error {
	_, _, err := s.client.From(s.table).
		Insert(fromEntry(e), false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("inserting %s: %w", e.Username, err)
	}
	return nil
}

func toEntries(rows []row) []leaderboard.Entry {
	out := make([]leaderboard.Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, toEntry(r))
	}
	return out
}

func toEntry(r row) leaderboard.Entry {
	return leaderboard.Entry{
		ID:        r.ID,
		Username:  r.Username,
		Score:     r.Score,
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

// fromEntry leaves the id empty so the table default assigns one.
func fromEntry(e leaderboard.Entry) row {
	return row{
		Username:  e.Username,
		Score:     e.Score,
		UpdatedAt: formatTime(e.UpdatedAt),
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// PostgREST returns timestamptz with an offset and sometimes without one,
// depending on the column type.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
