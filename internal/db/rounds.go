package db

import (
	"fmt"
	"time"
)

type RoundEvent struct {
	SessionCode string
	Username    string
	Prediction  int
	Outcome     int
	Award       int
	ScoreAfter  int
	LivesAfter  int
	LandedAt    time.Time
}

const insertRound = `
	INSERT INTO rounds (session_code, username, prediction, outcome, award, score_after, lives_after, landed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func (d *DB) RecordRound(ev RoundEvent) error {
	_, err := d.conn.Exec(insertRound, ev.SessionCode, ev.Username, ev.Prediction, ev.Outcome, ev.Award, ev.ScoreAfter, ev.LivesAfter, ev.LandedAt)
	if err != nil {
		return fmt.Errorf("recording round: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordRounds(events []RoundEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertRound)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.SessionCode, ev.Username, ev.Prediction, ev.Outcome, ev.Award, ev.ScoreAfter, ev.LivesAfter, ev.LandedAt); err != nil {
			return fmt.Errorf("recording round in batch: %w", err)
		}
	}

	return tx.Commit()
}
