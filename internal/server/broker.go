package server

import (
	"encoding/json"
	"sync"

	"github.com/ejdedart/dartscore/internal/match"
)

// Event types published per match.
const (
	EventDart      = "dart"
	EventTurn      = "turn"
	EventBust      = "bust"
	EventLegWon    = "leg_won"
	EventSetWon    = "set_won"
	EventMatchOver = "match_over"
	EventUndo      = "undo"
	EventClosed    = "closed"
)

// Event is the payload sent to match subscribers.
type Event struct {
	Type    string            `json:"type"`
	MatchID string            `json:"matchId"`
	Dart    string            `json:"dart,omitempty"`
	Undone  string            `json:"undone,omitempty"`
	Result  *match.TurnResult `json:"result,omitempty"`
}

// turnEvent names a committed visit by the biggest thing it did.
func turnEvent(matchID string, res match.TurnResult) Event {
	typ := EventTurn
	switch {
	case res.MatchWon:
		typ = EventMatchOver
	case res.SetWon:
		typ = EventSetWon
	case res.LegWon:
		typ = EventLegWon
	case res.Bust:
		typ = EventBust
	}
	return Event{Type: typ, MatchID: matchID, Result: &res}
}

// Broker is an in-process pub/sub for match events, keyed by match ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the match.
func (b *Broker) Subscribe(matchID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[matchID] == nil {
		b.subs[matchID] = make(map[chan []byte]struct{})
	}
	b.subs[matchID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(matchID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[matchID], ch)
	if len(b.subs[matchID]) == 0 {
		delete(b.subs, matchID)
	}
	b.mu.Unlock()
}

// Publish sends an event to every subscriber of its match. Slow subscribers
// miss events rather than block the publisher.
func (b *Broker) Publish(event Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[event.MatchID] {
		select {
		case ch <- data:
		default:
		}
	}
	b.mu.RUnlock()
}

// Subscribers reports how many channels listen to a match.
func (b *Broker) Subscribers(matchID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[matchID])
}
