package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType classifies engine events delivered to connected clients
type EventType string

const (
	EventHandStarted     EventType = "HAND_STARTED"
	EventCardsDealt      EventType = "CARDS_DEALT"
	EventActionProcessed EventType = "ACTION_PROCESSED"
	EventPhaseChanged    EventType = "PHASE_CHANGED"
	EventPotAwarded      EventType = "POT_AWARDED"
	EventReveal          EventType = "REVEAL"
	EventHandComplete    EventType = "HAND_COMPLETE"
	EventGamePaused      EventType = "GAME_PAUSED"
	EventGameCompleted   EventType = "GAME_COMPLETED"
	EventPlayerJoined    EventType = "PLAYER_JOINED"
	EventPlayerLeft      EventType = "PLAYER_LEFT"
)

// Event is one notification emitted by the engine. Delivery semantics
// (retry, ordering) are the broadcaster's concern, not the engine's.
type Event struct {
	ID         string                 `json:"id"`
	GameID     string                 `json:"gameId"`
	Type       EventType              `json:"type"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// NewEvent builds an event with a fresh id and timestamp
func NewEvent(gameID string, eventType EventType, payload map[string]interface{}) *Event {
	return &Event{
		ID:         uuid.New().String(),
		GameID:     gameID,
		Type:       eventType,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
}

// Broadcaster delivers engine events to connected clients
type Broadcaster interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// Relay forwards events to a swappable target broadcaster. It breaks the
// construction cycle between the engine (which needs a broadcaster) and
// transports like the Discord bot (which need the engine): wire the relay
// into the engine first, then point it at the transport.
type Relay struct {
	mu     sync.RWMutex
	target Broadcaster
}

// NewRelay creates a relay with no target; events are dropped until
// SetTarget is called
func NewRelay() *Relay {
	return &Relay{}
}

// SetTarget points the relay at a live broadcaster
func (r *Relay) SetTarget(target Broadcaster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.target = target
}

// Publish forwards to the current target, silently dropping when none is set
func (r *Relay) Publish(ctx context.Context, event *Event) error {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()
	if target == nil {
		return nil
	}
	return target.Publish(ctx, event)
}

// Close closes the current target
func (r *Relay) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.target == nil {
		return nil
	}
	return r.target.Close()
}

// MemoryBroadcaster buffers events in memory. Used in tests and as the
// default when no external transport is configured.
type MemoryBroadcaster struct {
	mu     sync.RWMutex
	events []*Event
}

// NewMemoryBroadcaster creates a buffering broadcaster
func NewMemoryBroadcaster() *MemoryBroadcaster {
	return &MemoryBroadcaster{}
}

// Publish appends the event to the buffer
func (b *MemoryBroadcaster) Publish(ctx context.Context, event *Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

// Events returns a copy of everything published so far
func (b *MemoryBroadcaster) Events() []*Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Event, len(b.events))
	copy(out, b.events)
	return out
}

// EventsOfType returns published events matching the given type
func (b *MemoryBroadcaster) EventsOfType(eventType EventType) []*Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Event
	for _, e := range b.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Close is a no-op for the in-memory broadcaster
func (b *MemoryBroadcaster) Close() error {
	return nil
}
