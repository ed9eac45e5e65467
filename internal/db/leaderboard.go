package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"plinkomarket/internal/leaderboard"
)

// LeaderboardStore adapts the leaderboard table to leaderboard.Store.
type LeaderboardStore struct {
	db *DB
}

func (d *DB) Leaderboard() *LeaderboardStore {
	return &LeaderboardStore{db: d}
}

func (s *LeaderboardStore) FetchTop(ctx context.Context, n int) ([]leaderboard.Entry, error) {
	rows, err := s.db.conn.QueryContext(ctx, `
		SELECT id, username, score, updated_at
		FROM leaderboard
		ORDER BY score DESC, updated_at ASC, username ASC
		LIMIT $1
	`, n)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *LeaderboardStore) FindByUsername(ctx context.Context, username string) (*leaderboard.Entry, error) {
	var e leaderboard.Entry
	err := s.db.conn.QueryRowContext(ctx, `
		SELECT id, username, score, updated_at FROM leaderboard WHERE username = $1
	`, username).Scan(&e.ID, &e.Username, &e.Score, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting leaderboard entry: %w", err)
	}
	return &e, nil
}

func (s *LeaderboardStore) Update(ctx context.Context, id string, score int, at time.Time) error {
	_, err := s.db.conn.ExecContext(ctx, `
		UPDATE leaderboard SET score = $2, updated_at = $3 WHERE id = $1
	`, id, score, at)
	if err != nil {
		return fmt.Errorf("updating leaderboard entry: %w", err)
	}
	return nil
}

func (s *LeaderboardStore) Insert(ctx context.Context, e leaderboard.Entry) error {
	_, err := s.db.conn.ExecContext(ctx, `
		INSERT INTO leaderboard (username, score, updated_at) VALUES ($1, $2, $3)
	`, e.Username, e.Score, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting leaderboard entry: %w", err)
	}
	return nil
}
