package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"plinkomarket/internal/db"
	"plinkomarket/internal/gamedata"
	"plinkomarket/internal/leaderboard"
	"plinkomarket/internal/metrics"
	"plinkomarket/internal/physics"
	"plinkomarket/internal/sessions"

	"github.com/rs/zerolog/log"
)

const sessionCookie = "session_code"

type Server struct {
	Sessions    *sessions.Store
	Board       *leaderboard.Board
	Tuning      physics.Tuning
	DB          *db.DB             // nil if no database configured
	RoundBuffer chan db.RoundEvent // nil if no database configured
}

type gameResponse struct {
	Code string `json:"code"`
	gamedata.Snapshot
}

// getSession resolves the current session from the session_code cookie.
func (s *Server) getSession(r *http.Request) *sessions.Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || !sessions.ValidCode(cookie.Value) {
		return nil
	}
	return s.Sessions.Get(cookie.Value)
}

// requireSession writes a 404 and returns nil when the request has no live session.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) *sessions.Session {
	sess := s.getSession(r)
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
	}
	return sess
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Str("component", "server").Msg("encoding response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeGameError maps refused transitions to client errors.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gamedata.ErrInvalidUsername), errors.Is(err, gamedata.ErrInvalidBucket):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, gamedata.ErrInvalidScene):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Str("component", "server").Msg("game transition failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeSnapshot(w http.ResponseWriter, status int, sess *sessions.Session) {
	writeJSON(w, status, gameResponse{Code: sess.Code, Snapshot: sess.Game.Snapshot()})
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	log.Debug().Str("handler", "NewGame").Msg("request received")

	if old := s.getSession(r); old != nil {
		s.Sessions.Delete(old.Code)
	}

	sess, err := s.Sessions.Create()
	if err != nil {
		log.Error().Err(err).Str("handler", "NewGame").Msg("failed to create session")
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.Code,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info().Str("handler", "NewGame").Str("code", sess.Code).Msg("created session")
	writeSnapshot(w, http.StatusCreated, sess)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	username := strings.ToUpper(strings.TrimSpace(r.FormValue("username")))
	if err := sess.Game.Start(username); err != nil {
		writeGameError(w, err)
		return
	}
	log.Info().Str("handler", "Start").Str("code", sess.Code).Str("username", username).Msg("game started")
	writeSnapshot(w, http.StatusOK, sess)
}

func (s *Server) handleBet(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	bucket, err := strconv.Atoi(r.FormValue("bucket"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bucket must be an integer")
		return
	}
	if err := sess.Game.Bet(bucket); err != nil {
		writeGameError(w, err)
		return
	}
	writeSnapshot(w, http.StatusOK, sess)
}

func (s *Server) handleNextRound(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	if err := sess.Game.NextRound(); err != nil {
		writeGameError(w, err)
		return
	}
	writeSnapshot(w, http.StatusOK, sess)
}

func (s *Server) handlePlayAgain(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	if err := sess.Game.PlayAgain(); err != nil {
		writeGameError(w, err)
		return
	}
	writeSnapshot(w, http.StatusOK, sess)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}
	writeSnapshot(w, http.StatusOK, sess)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.requireSession(w, r)
	if sess == nil {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	msgChan := sess.Broadcaster.Subscribe()
	defer sess.Broadcaster.Unsubscribe(msgChan)

	writeEvent(w, "sceneChange", string(sess.Game.Scene()))
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-msgChan:
			if !ok {
				return
			}
			writeEvent(w, msg.Event, msg.Msg)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event, data string) {
	fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(w, "data: %s\n", line)
	}
	fmt.Fprint(w, "\n")
}

// recordRound counts the round and queues it for the history table.
func (s *Server) recordRound(code string, res gamedata.RoundResult) {
	metrics.ObserveRound(res.Prediction == res.Outcome, res.GameOver)

	if s.RoundBuffer == nil {
		return
	}
	ev := db.RoundEvent{
		SessionCode: code,
		Username:    res.Username,
		Prediction:  res.Prediction,
		Outcome:     res.Outcome,
		Award:       res.Award,
		ScoreAfter:  res.Score,
		LivesAfter:  res.Lives,
		LandedAt:    time.Now(),
	}
	select {
	case s.RoundBuffer <- ev:
	default:
		log.Warn().Str("component", "db").Str("code", code).Msg("round buffer full, dropping round")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "db_error", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
