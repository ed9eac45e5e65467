package server

import (
	"net/http"
	"strings"

	"plinkomarket/internal/analytics"

	"github.com/rs/zerolog/log"
)

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	username := strings.ToUpper(r.PathValue("username"))
	stats, err := analytics.NewQueries(s.DB).GetPlayerStats(username, s.jackpot())
	if err != nil {
		log.Error().Err(err).Str("handler", "PlayerStats").Msg("stats query failed")
		writeError(w, http.StatusInternalServerError, "error loading stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLandings(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics requires a database connection")
		return
	}

	dist, err := analytics.NewQueries(s.DB).GetLandingDistribution(len(s.Tuning.BucketRewards))
	if err != nil {
		log.Error().Err(err).Str("handler", "Landings").Msg("landing query failed")
		writeError(w, http.StatusInternalServerError, "error loading landings")
		return
	}
	writeJSON(w, http.StatusOK, dist)
}

// jackpot is the largest bucket reward.
func (s *Server) jackpot() int {
	best := 0
	for _, r := range s.Tuning.BucketRewards {
		if r > best {
			best = r
		}
	}
	return best
}
