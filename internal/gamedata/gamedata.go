package gamedata

import (
	"context"
	"errors"
	"sync"

	"plinkomarket/internal/events"
	"plinkomarket/internal/physics"
)

type Scene string

const (
	SceneIntro    = Scene("intro")
	SceneBetting  = Scene("betting")
	ScenePlaying  = Scene("playing")
	SceneRoundEnd = Scene("round_end")
	SceneGameOver = Scene("gameover")
)

var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidScene    = errors.New("invalid scene for action")
	ErrInvalidBucket   = errors.New("bucket out of range")
)

type Config struct {
	StartingLives  int
	UsernameLength int
}

func DefaultConfig() Config {
	return Config{
		StartingLives:  3,
		UsernameLength: 3,
	}
}

// Submitter receives the final score of a finished session.
type Submitter interface {
	Submit(ctx context.Context, username string, score int) error
}

// Round is one bet. Score and lives are captured when the ball is dropped
// and the round is resolved from these copies only.
type Round struct {
	Prediction   int
	Outcome      int // -1 until the ball lands
	Award        int
	ScoreAtStart int
	LivesAtStart int
	Ticks        int
	Ball         physics.Ball
}

func (r *Round) Won() bool {
	return r.Outcome >= 0 && r.Outcome == r.Prediction
}

type RoundResult struct {
	Username   string
	Prediction int
	Outcome    int
	Award      int
	Score      int
	Lives      int
	GameOver   bool
}

type Hooks struct {
	OnFrame func(Frame)
	OnRound func(RoundResult)
}

type Game struct {
	mu       sync.Mutex
	scene    Scene
	username string
	score    int
	lives    int
	round    *Round
	last     *Round
	stopped  bool

	engine    Engine
	sched     Scheduler
	submitter Submitter
	hooks     Hooks
	Events    *events.Bus
	Config    Config
}

func NewGame(engine Engine, sched Scheduler, submitter Submitter, bus *events.Bus, cfg Config) *Game {
	return &Game{
		scene:     SceneIntro,
		lives:     cfg.StartingLives,
		engine:    engine,
		sched:     sched,
		submitter: submitter,
		Events:    bus,
		Config:    cfg,
	}
}

func (g *Game) SetHooks(h Hooks) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = h
}

func (g *Game) Scene() Scene {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scene
}

func (g *Game) Score() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.score
}

func (g *Game) Lives() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lives
}

func (g *Game) Username() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.username
}

// ValidUsername reports whether name is exactly n uppercase ASCII letters.
func ValidUsername(name string, n int) bool {
	if len(name) != n {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 'A' || name[i] > 'Z' {
			return false
		}
	}
	return true
}

func (g *Game) Start(username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.scene != SceneIntro {
		return ErrInvalidScene
	}
	if !ValidUsername(username, g.Config.UsernameLength) {
		return ErrInvalidUsername
	}
	g.username = username
	g.resetLocked()
	g.setSceneLocked(SceneBetting)
	return nil
}

// Bet latches the prediction, drops a new ball and starts the frame loop.
func (g *Game) Bet(bucket int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.scene != SceneBetting {
		return ErrInvalidScene
	}
	if bucket < 0 || bucket >= g.engine.Field().BucketCount() {
		return ErrInvalidBucket
	}
	g.round = &Round{
		Prediction:   bucket,
		Outcome:      -1,
		ScoreAtStart: g.score,
		LivesAtStart: g.lives,
		Ball:         g.engine.Spawn(),
	}
	g.last = nil
	g.setSceneLocked(ScenePlaying)
	g.sched.ScheduleNext(g.Step)
	return nil
}

// Step advances the in-flight ball by one frame and resolves the round when
// it lands. It is a no-op outside the playing scene.
func (g *Game) Step() {
	g.mu.Lock()
	if g.stopped || g.scene != ScenePlaying || g.round == nil {
		g.mu.Unlock()
		return
	}

	r := g.round
	r.Ticks++
	bucket, landed := g.engine.Step(&r.Ball)

	var result *RoundResult
	if landed {
		res := g.resolveLocked(r, bucket)
		result = &res
	} else {
		g.sched.ScheduleNext(g.Step)
	}
	frame := g.frameLocked(r)
	hooks := g.hooks
	g.mu.Unlock()

	if hooks.OnFrame != nil {
		hooks.OnFrame(frame)
	}
	if result == nil {
		return
	}
	if hooks.OnRound != nil {
		hooks.OnRound(*result)
	}
	if result.GameOver {
		go g.submit(result.Username, result.Score)
	}
}

func (g *Game) resolveLocked(r *Round, bucket int) RoundResult {
	r.Outcome = bucket
	if r.Won() {
		r.Award = g.engine.Field().Reward(bucket)
	}
	g.score = r.ScoreAtStart + r.Award
	g.lives = r.LivesAtStart - 1
	g.round = nil
	g.last = r

	over := g.lives <= 0
	if over {
		g.setSceneLocked(SceneGameOver)
	} else {
		g.setSceneLocked(SceneRoundEnd)
	}
	return RoundResult{
		Username:   g.username,
		Prediction: r.Prediction,
		Outcome:    r.Outcome,
		Award:      r.Award,
		Score:      g.score,
		Lives:      g.lives,
		GameOver:   over,
	}
}

func (g *Game) submit(username string, score int) {
	if g.submitter == nil {
		return
	}
	if err := g.submitter.Submit(context.Background(), username, score); err != nil {
		return
	}
	g.Events.PublishLeaderboard(username, score)
}

func (g *Game) NextRound() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.scene != SceneRoundEnd {
		return ErrInvalidScene
	}
	g.round = nil
	g.last = nil
	g.setSceneLocked(SceneBetting)
	return nil
}

func (g *Game) PlayAgain() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.scene != SceneGameOver {
		return ErrInvalidScene
	}
	g.resetLocked()
	g.setSceneLocked(SceneBetting)
	return nil
}

// Stop tears the game down. Only the next frame is cancelled; a score
// submission already under way is left to finish.
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	g.sched.Cancel()
}

func (g *Game) resetLocked() {
	g.score = 0
	g.lives = g.Config.StartingLives
	g.round = nil
	g.last = nil
}

func (g *Game) setSceneLocked(s Scene) {
	g.scene = s
	g.Events.PublishScene(string(s))
}
