package events

type SceneChangeEvent struct {
	Scene string
}

// LeaderboardEvent fires once a finished session's score submission returns.
type LeaderboardEvent struct {
	Username string
	Score    int
}

type Bus struct {
	SceneChanges chan SceneChangeEvent
	Leaderboard  chan LeaderboardEvent
}

func NewBus() *Bus {
	return &Bus{
		SceneChanges: make(chan SceneChangeEvent, 10),
		Leaderboard:  make(chan LeaderboardEvent, 10),
	}
}

// PublishScene never blocks the frame loop; the event is dropped if nobody drains the bus.
func (b *Bus) PublishScene(scene string) bool {
	select {
	case b.SceneChanges <- SceneChangeEvent{Scene: scene}:
		return true
	default:
		return false
	}
}

func (b *Bus) PublishLeaderboard(username string, score int) bool {
	select {
	case b.Leaderboard <- LeaderboardEvent{Username: username, Score: score}:
		return true
	default:
		return false
	}
}
