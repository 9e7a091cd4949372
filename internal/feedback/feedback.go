// Package feedback plays counter sounds. The server has no speaker, so events
// are fanned out to connected browsers which play the tone.
package feedback

import (
	"sync"

	"go.uber.org/zap"
)

type Event string

const (
	ScanSuccess    Event = "scan-success"
	ScanError      Event = "scan-error"
	AddToCart      Event = "add-to-cart"
	Delete         Event = "delete"
	Click          Event = "click"
	PaymentSuccess Event = "payment-success"
	Sync           Event = "sync"
)

// Player emits a sound cue. Play must never block.
type Player interface {
	Play(Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Play(Event) {}

// Hub broadcasts events to subscribers. Slow subscribers miss events.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	log    *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{subs: make(map[int]chan Event), log: log}
}

func (h *Hub) Play(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- e:
		default:
			h.log.Debug("sound event dropped", zap.Int("subscriber", id), zap.String("event", string(e)))
		}
	}
}

// Subscribe returns a buffered event channel and a function that closes it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, 16)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers is the number of connected listeners.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
