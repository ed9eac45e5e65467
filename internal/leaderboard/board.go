package leaderboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Board merges finished scores into the leaderboard. It writes to the
// remote store when one is configured and to the local store otherwise.
type Board struct {
	remote Store
	local  *MemoryStore
	now    func() time.Time

	// OnSubmitError is called for every swallowed remote failure.
	OnSubmitError func(err error)
}

// NewBoard takes a nil remote when no backend is configured.
func NewBoard(remote Store, local *MemoryStore) *Board {
	if local == nil {
		local = NewMemoryStore("")
	}
	return &Board{remote: remote, local: local, now: time.Now}
}

func (b *Board) Remote() bool {
	return b.remote != nil
}

// Submit records score for username if it beats the stored best. Scores of
// zero or less are ignored. Failures are logged and returned but never
// retried.
func (b *Board) Submit(ctx context.Context, username string, score int) error {
	if score <= 0 {
		return nil
	}
	store, backend := Store(b.local), "local"
	if b.remote != nil {
		store, backend = b.remote, "remote"
	}
	if err := merge(ctx, store, username, score, b.now()); err != nil {
		log.Error().Err(err).Str("component", "leaderboard").Str("backend", backend).
			Str("username", username).Int("score", score).Msg("score submission failed")
		if b.OnSubmitError != nil {
			b.OnSubmitError(err)
		}
		return err
	}
	return nil
}

// Top returns the n best entries. A failing remote read falls back to the
// local store so the view is never empty.
func (b *Board) Top(ctx context.Context, n int) []Entry {
	if n <= 0 {
		n = DefaultTop
	}
	if b.remote != nil {
		entries, err := b.remote.FetchTop(ctx, n)
		if err == nil {
			Rank(entries)
			return truncate(entries, n)
		}
		log.Warn().Err(err).Str("component", "leaderboard").Msg("remote leaderboard unavailable, using local")
	}
	entries, err := b.local.FetchTop(ctx, n)
	if err != nil {
		return nil
	}
	return entries
}

func merge(ctx context.Context, s Store, username string, score int, at time.Time) error {
	existing, err := s.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("looking up %s: %w", username, err)
	}
	if existing == nil {
		if err := s.Insert(ctx, Entry{Username: username, Score: score, UpdatedAt: at}); err != nil {
			return fmt.Errorf("inserting %s: %w", username, err)
		}
		return nil
	}
	if score <= existing.Score {
		return nil
	}
	if err := s.Update(ctx, existing.ID, score, at); err != nil {
		return fmt.Errorf("updating %s: %w", username, err)
	}
	return nil
}
