package server

import (
	"net/http"
	"os"
	"time"

	"plinkomarket/internal/config"
	"plinkomarket/internal/db"
	"plinkomarket/internal/gamedata"
	"plinkomarket/internal/leaderboard"
	"plinkomarket/internal/metrics"
	"plinkomarket/internal/physics"
	"plinkomarket/internal/sessions"
	"plinkomarket/internal/supastore"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() error {
	appCfg := config.Load()
	setupLogger(appCfg.LogLevel)

	srv := &Server{Tuning: physics.DefaultTuning()}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Str("component", "db").Msg("failed to connect, running without database")
		} else {
			if err := database.Migrate(); err != nil {
				log.Error().Err(err).Str("component", "db").Msg("migration failed")
			}
			srv.DB = database
			srv.RoundBuffer = make(chan db.RoundEvent, 1000)
			go roundBatchWriter(database, srv.RoundBuffer)
		}
	} else {
		log.Info().Str("component", "db").Msg("DATABASE_URL not set, running without database")
	}

	srv.Board = newBoard(appCfg, srv.DB)
	srv.Sessions = sessions.NewStore(sessions.Options{
		Tuning:    srv.Tuning,
		Game:      gamedata.DefaultConfig(),
		Submitter: srv.Board,
		TickHz:    appCfg.TickHz,
		TTL:       appCfg.SessionTTL,
		OnRound:   srv.recordRound,
	})

	addr := "0.0.0.0:" + appCfg.Port
	log.Info().Str("addr", addr).Msgf("server listening on http://localhost:%s", appCfg.Port)
	return http.ListenAndServe(addr, srv.routes())
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /game/new", s.handleNewGame)
	mux.HandleFunc("POST /game/start", s.handleStart)
	mux.HandleFunc("POST /game/bet", s.handleBet)
	mux.HandleFunc("POST /game/next", s.handleNextRound)
	mux.HandleFunc("POST /game/play-again", s.handlePlayAgain)
	mux.HandleFunc("GET /game/state", s.handleState)
	mux.HandleFunc("GET /game/events", s.handleEvents)
	mux.HandleFunc("GET /game/ws", s.handleWS)
	mux.HandleFunc("GET /leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /analytics/players/{username}", s.handlePlayerStats)
	mux.HandleFunc("GET /analytics/landings", s.handleLandings)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// newBoard picks the leaderboard backend: Supabase when configured, then
// Postgres, then the process-local store alone.
func newBoard(cfg config.Config, database *db.DB) *leaderboard.Board {
	local := leaderboard.NewMemoryStore(cfg.LocalBoardPath)

	var remote leaderboard.Store
	if cfg.RemoteLeaderboard() {
		st, err := supastore.New(cfg.SupabaseURL, cfg.SupabaseKey, cfg.LeaderboardTable)
		if err != nil {
			log.Error().Err(err).Str("component", "leaderboard").Msg("supabase unavailable")
		} else {
			remote = st
			log.Info().Str("component", "leaderboard").Str("table", cfg.LeaderboardTable).Msg("using supabase leaderboard")
		}
	}
	if remote == nil && database != nil {
		remote = database.Leaderboard()
		log.Info().Str("component", "leaderboard").Msg("using postgres leaderboard")
	}
	if remote == nil {
		log.Info().Str("component", "leaderboard").Str("path", cfg.LocalBoardPath).Msg("using local leaderboard")
	}

	board := leaderboard.NewBoard(remote, local)
	board.OnSubmitError = func(error) { metrics.SubmissionsFailed.Inc() }
	return board
}

func roundBatchWriter(database *db.DB, buffer chan db.RoundEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.RoundEvent, 0, 50)

	flush := func() {
		if err := database.BatchRecordRounds(batch); err != nil {
			log.Error().Err(err).Str("component", "db").Int("rounds", len(batch)).Msg("BatchRecordRounds failed")
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				flush()
			}
		case <-ticker.C:
			if len(batch) > 0 {
				flush()
			}
		}
	}
}
