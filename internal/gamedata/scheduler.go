package gamedata

import (
	"sync"
	"time"
)

// Scheduler runs the next frame of a game. It stands in for the display's
// refresh callback so the loop can be single-stepped in tests.
type Scheduler interface {
	ScheduleNext(fn func())
	Cancel()
}

// FrameScheduler fires one callback per frame interval on a timer.
type FrameScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
}

func NewFrameScheduler(hz int) *FrameScheduler {
	if hz <= 0 {
		hz = 60
	}
	return &FrameScheduler{interval: time.Second / time.Duration(hz)}
}

func (s *FrameScheduler) ScheduleNext(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.interval, fn)
}

// Cancel drops the pending frame, if any. A frame already running is not interrupted.
func (s *FrameScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
