package server

import (
	"net/http"
	"strconv"

	"plinkomarket/internal/leaderboard"
)

const maxLeaderboard = 50

type rankedEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	n := leaderboard.DefaultTop
	if v := r.URL.Query().Get("n"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			n = i
		}
	}
	if n > maxLeaderboard {
		n = maxLeaderboard
	}

	entries := s.Board.Top(r.Context(), n)
	out := make([]rankedEntry, 0, len(entries))
	for i, e := range entries {
		out = append(out, rankedEntry{Rank: i + 1, Username: e.Username, Score: e.Score})
	}
	writeJSON(w, http.StatusOK, out)
}
