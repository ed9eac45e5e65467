// Package metrics holds the Prometheus collectors served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plinko_rounds_total",
		Help: "Resolved rounds by outcome.",
	}, []string{"outcome"})

	GamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plinko_games_finished_total",
		Help: "Games that reached game over.",
	})

	SubmissionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plinko_submissions_failed_total",
		Help: "Score submissions the leaderboard store rejected.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plinko_active_sessions",
		Help: "Sessions currently held in memory.",
	})
)

// ObserveRound counts one resolved round.
func ObserveRound(won, gameOver bool) {
	outcome := "lost"
	if won {
		outcome = "won"
	}
	RoundsTotal.WithLabelValues(outcome).Inc()
	if gameOver {
		GamesFinished.Inc()
	}
}
