package sessions

import (
	"time"

	"plinkomarket/internal/broadcast"
	"plinkomarket/internal/gamedata"
	"plinkomarket/internal/wshub"
)

// Session is one browser's game together with its push channels.
type Session struct {
	Code        string
	Game        *gamedata.Game
	Broadcaster *broadcast.Broadcaster
	Hub         *wshub.Hub
	CreatedAt   time.Time

	// lastActive is guarded by the owning Store's mutex.
	lastActive time.Time
}

func (s *Session) close() {
	s.Game.Stop()
	s.Broadcaster.Close()
	s.Hub.Close()
}

func frameMessage(f gamedata.Frame) wshub.ServerMessage {
	return wshub.ServerMessage{
		Type:   "frame",
		Tick:   f.Tick,
		X:      f.Ball.X,
		Y:      f.Ball.Y,
		Active: f.Active,
		Scene:  string(f.Scene),
	}
}

func roundMessage(r gamedata.RoundResult) wshub.ServerMessage {
	return wshub.ServerMessage{
		Type:   "round",
		Scene:  sceneAfter(r),
		Bucket: r.Outcome,
		Award:  r.Award,
	}
}

func sceneAfter(r gamedata.RoundResult) string {
	if r.GameOver {
		return string(gamedata.SceneGameOver)
	}
	return string(gamedata.SceneRoundEnd)
}
