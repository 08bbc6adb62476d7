// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// EventTurnout is the only event type sent to subscribers.
const EventTurnout = "turnout"

// TurnoutEvent carries the ballot count of one election. It never
// says who voted or for whom.
type TurnoutEvent struct {
	Type       string    `json:"type"`
	ElectionID string    `json:"election_id"`
	TotalVotes int       `json:"total_votes"`
	At         time.Time `json:"at"`
}

// Hub fans turnout events out to websocket subscribers, grouped by
// election. All subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[string]map[*client]bool // electionID -> clients
	broadcast  chan TurnoutEvent
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu     sync.RWMutex
	counts map[string]int
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*client]bool),
		broadcast:  make(chan TurnoutEvent, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		counts:     make(map[string]int),
	}
}

// Run processes registrations and broadcasts until ctx is done, then
// disconnects every subscriber. A Hub is run once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.clients {
				for c := range clients {
					close(c.send)
				}
			}
			h.clients = make(map[string]map[*client]bool)
			h.mu.Lock()
			h.counts = make(map[string]int)
			h.mu.Unlock()
			return

		case c := <-h.register:
			if h.clients[c.electionID] == nil {
				h.clients[c.electionID] = make(map[*client]bool)
			}
			h.clients[c.electionID][c] = true
			h.setCount(c.electionID)

		case c := <-h.unregister:
			h.drop(c)

		case ev := <-h.broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				slog.Error("failed to marshal turnout event", "error", err)
				continue
			}
			for c := range h.clients[ev.ElectionID] {
				select {
				case c.send <- msg:
				default:
					// Slow subscriber
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	clients, ok := h.clients[c.electionID]
	if !ok || !clients[c] {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.electionID)
	}
	h.setCount(c.electionID)
}

func (h *Hub) setCount(electionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.clients[electionID]); n > 0 {
		h.counts[electionID] = n
	} else {
		delete(h.counts, electionID)
	}
}

// Publish queues ev for delivery. It never blocks a vote: when the queue
// is full the event is dropped, and the next one carries a newer count.
func (h *Hub) Publish(ev TurnoutEvent) {
	ev.Type = EventTurnout
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	select {
	case h.broadcast <- ev:
	default:
		slog.Warn("turnout event dropped", "election_id", ev.ElectionID)
	}
}

// Subscribers is the number of connections watching electionID.
func (h *Hub) Subscribers(electionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.counts[electionID]
}
