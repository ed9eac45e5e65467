package broadcast

import (
	"strconv"
	"sync"

	"plinkomarket/internal/events"
)

// EventMessage is one server-sent event: an event name and its data lines.
type EventMessage struct {
	Event string
	Msg   string
}

type Broadcaster struct {
	Mu      sync.Mutex
	Clients map[chan EventMessage]bool
	done    chan struct{}
}

func NewBroadcaster(bus *events.Bus) *Broadcaster {
	b := &Broadcaster{
		Clients: make(map[chan EventMessage]bool),
		done:    make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-b.done:
				return
			case ev := <-bus.SceneChanges:
				b.Broadcast("sceneChange", ev.Scene)
			case ev := <-bus.Leaderboard:
				b.Broadcast("leaderboard", ev.Username+" "+strconv.Itoa(ev.Score))
			}
		}
	}()
	return b
}

// Close stops forwarding bus events. Subscribers keep their channels until they unsubscribe.
func (b *Broadcaster) Close() {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	select {
	case <-b.done:
	default:
		close(b.done)
	}
}

func (b *Broadcaster) Subscribe() chan EventMessage {
	ch := make(chan EventMessage, 10)
	b.Mu.Lock()
	b.Clients[ch] = true
	b.Mu.Unlock()
	return ch
}

func (b *Broadcaster) Unsubscribe(ch chan EventMessage) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	if b.Clients[ch] {
		delete(b.Clients, ch)
		close(ch)
	}
}

func (b *Broadcaster) Broadcast(event string, message string) {
	b.Mu.Lock()
	defer b.Mu.Unlock()
	for ch := range b.Clients {
		select {
		case ch <- EventMessage{Event: event, Msg: message}:
		default:
			// skip clients with full data channels
		}
	}
}
