package sessions

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"plinkomarket/internal/broadcast"
	"plinkomarket/internal/events"
	"plinkomarket/internal/gamedata"
	"plinkomarket/internal/metrics"
	"plinkomarket/internal/physics"
	"plinkomarket/internal/wshub"

	"github.com/rs/zerolog/log"
)

const (
	// defaultTTL is measured from a session's last request.
	defaultTTL    = 1 * time.Hour
	sweepInterval = 5 * time.Minute
)

type Options struct {
	Tuning    physics.Tuning
	Game      gamedata.Config
	Submitter gamedata.Submitter
	TickHz    int
	TTL       time.Duration

	// NewScheduler replaces the timer-backed frame scheduler; tests use it
	// to step games by hand.
	NewScheduler func() gamedata.Scheduler
	// NewRand supplies each session's random source.
	NewRand func() physics.Rand
	// OnRound sees every resolved round of every session.
	OnRound func(code string, r gamedata.RoundResult)
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	opts     Options
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func NewStore(opts Options) *Store {
	if opts.Tuning.Width <= 0 {
		opts.Tuning = physics.DefaultTuning()
	}
	if opts.Game.StartingLives <= 0 {
		opts.Game = gamedata.DefaultConfig()
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.NewScheduler == nil {
		hz := opts.TickHz
		opts.NewScheduler = func() gamedata.Scheduler { return gamedata.NewFrameScheduler(hz) }
	}
	if opts.NewRand == nil {
		opts.NewRand = func() physics.Rand { return rand.New(rand.NewSource(time.Now().UnixNano())) }
	}
	s := &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go s.sweepStale()
	return s
}

func (s *Store) Create() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Try up to 10 times to generate a unique code
	for range 10 {
		code, err := GenerateCode()
		if err != nil {
			return nil, fmt.Errorf("generating session code: %w", err)
		}
		if _, exists := s.sessions[code]; exists {
			continue
		}

		sess := s.newSession(code)
		s.sessions[code] = sess
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
		log.Info().Str("component", "sessions").Str("code", code).Msg("session created")
		return sess, nil
	}
	return nil, fmt.Errorf("failed to generate unique session code after 10 attempts")
}

func (s *Store) newSession(code string) *Session {
	rng := s.opts.NewRand()
	field := physics.NewField(s.opts.Tuning, rng)
	bus := events.NewBus()
	game := gamedata.NewGame(gamedata.NewEngine(field, rng), s.opts.NewScheduler(), s.opts.Submitter, bus, s.opts.Game)

	sess := &Session{
		Code:        code,
		Game:        game,
		Broadcaster: broadcast.NewBroadcaster(bus),
		Hub:         wshub.NewHub(),
		CreatedAt:   s.now(),
	}
	sess.lastActive = sess.CreatedAt

	onRound := s.opts.OnRound
	game.SetHooks(gamedata.Hooks{
		OnFrame: func(f gamedata.Frame) {
			sess.Hub.Broadcast(frameMessage(f))
		},
		OnRound: func(r gamedata.RoundResult) {
			sess.Hub.Broadcast(roundMessage(r))
			if onRound != nil {
				onRound(code, r)
			}
		},
	})
	return sess
}

// Get returns the session for code and marks it active.
func (s *Store) Get(code string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[code]
	if sess != nil {
		sess.lastActive = s.now()
	}
	return sess
}

func (s *Store) Delete(code string) {
	s.mu.Lock()
	sess, ok := s.sessions[code]
	delete(s.sessions, code)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if ok {
		sess.close()
	}
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

// Close stops the sweeper and tears down every session.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.done) })
	for _, sess := range s.List() {
		s.Delete(sess.Code)
	}
}

func (s *Store) sweepStale() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.removeStale()
		}
	}
}

func (s *Store) removeStale() int {
	s.mu.Lock()
	now := s.now()
	var stale []*Session
	for code, sess := range s.sessions {
		if now.Sub(sess.lastActive) > s.opts.TTL {
			stale = append(stale, sess)
			delete(s.sessions, code)
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	for _, sess := range stale {
		sess.close()
		log.Info().Str("component", "sessions").Str("code", sess.Code).Msg("stale session removed")
	}
	return len(stale)
}
