package leaderboard

import (
	"context"
	"sort"
	"time"
)

// DefaultTop is how many entries the leaderboard view shows.
const DefaultTop = 5

type Entry struct {
	ID        string    `json:"id,omitempty"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence port. A remote table and the process-local map
// both satisfy it; the merge rules live in Board, not in the stores.
type Store interface {
	FetchTop(ctx context.Context, n int) ([]Entry, error)
	// FindByUsername returns nil, nil when there is no entry.
	FindByUsername(ctx context.Context, username string) (*Entry, error)
	Update(ctx context.Context, id string, score int, at time.Time) error
	Insert(ctx context.Context, e Entry) error
}

// Rank orders entries by score descending. Equal scores keep the entry that
// reached the score first ahead, then fall back to username.
func Rank(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
		return a.Username < b.Username
	})
}

func truncate(entries []Entry, n int) []Entry {
	if n >= 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}
