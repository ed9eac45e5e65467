package analytics

import (
	"fmt"

	"plinkomarket/internal/db"
)

type Queries struct {
	DB *db.DB
}

func NewQueries(database *db.DB) *Queries {
	return &Queries{DB: database}
}

// GetPlayerStats aggregates a player's round history. jackpot is the reward
// that counts as a jackpot hit.
func (q *Queries) GetPlayerStats(username string, jackpot int) (*PlayerStats, error) {
	stats := &PlayerStats{Username: username}

	err := q.DB.QueryRow(`
		SELECT
			COUNT(*) as rounds_played,
			COUNT(*) FILTER (WHERE prediction = outcome) as rounds_won,
			COUNT(*) FILTER (WHERE prediction = outcome AND award >= $2) as jackpot_hits,
			COALESCE(SUM(award), 0) as total_awarded,
			COALESCE(MAX(score_after), 0) as best_score
		FROM rounds
		WHERE username = $1
	`, username, jackpot).Scan(&stats.RoundsPlayed, &stats.RoundsWon, &stats.JackpotHits, &stats.TotalAwarded, &stats.BestScore)
	if err != nil {
		return nil, fmt.Errorf("getting player stats: %w", err)
	}

	stats.HitRate = hitRate(stats.RoundsWon, stats.RoundsPlayed)
	stats.Badges = EvaluateBadges(*stats)
	return stats, nil
}

// GetLandingDistribution reports where balls have landed across all sessions,
// one entry per bucket in [0, buckets).
func (q *Queries) GetLandingDistribution(buckets int) ([]BucketLandings, error) {
	rows, err := q.DB.Query(`
		SELECT outcome, COUNT(*) FROM rounds GROUP BY outcome ORDER BY outcome
	`)
	if err != nil {
		return nil, fmt.Errorf("querying landings: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	for rows.Next() {
		var bucket, n int
		if err := rows.Scan(&bucket, &n); err != nil {
			return nil, fmt.Errorf("scanning landings: %w", err)
		}
		counts[bucket] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return Distribution(counts, buckets), nil
}

// Distribution turns raw landing counts into per-bucket shares. Buckets
// outside [0, buckets) are ignored.
func Distribution(counts map[int]int, buckets int) []BucketLandings {
	total := 0
	for b, n := range counts {
		if b >= 0 && b < buckets {
			total += n
		}
	}
	out := make([]BucketLandings, buckets)
	for b := range out {
		out[b] = BucketLandings{Bucket: b, Landings: counts[b]}
		if total > 0 {
			out[b].Share = float64(counts[b]) / float64(total) * 100
		}
	}
	return out
}

func hitRate(won, played int) float64 {
	if played == 0 {
		return 0
	}
	return float64(won) / float64(played) * 100
}
