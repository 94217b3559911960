package game

import (
	"sync"
	"time"

	"github.com/lox/tongits/cards"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeGameStart     EventType = "game_start"
	EventTypeCardDrawn     EventType = "card_drawn"
	EventTypeCardDiscarded EventType = "card_discarded"
	EventTypeMeldExposed   EventType = "meld_exposed"
	EventTypeHandArranged  EventType = "hand_arranged"
	EventTypeGameEnd       EventType = "game_end"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happened to a game after a committed action
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameStartEvent is published when cards have been dealt
type GameStartEvent struct {
	GameID    string
	PlayerIDs []string
	DeckCount int
	timestamp time.Time
}

func (e GameStartEvent) EventType() EventType { return EventTypeGameStart }
func (e GameStartEvent) Timestamp() time.Time { return e.timestamp }

// CardDrawnEvent is published when a player takes the top card of the deck.
// Card is the drawn card and must not be shown to other players.
type CardDrawnEvent struct {
	PlayerID  string
	Card      cards.Card
	DeckCount int
	timestamp time.Time
}

func (e CardDrawnEvent) EventType() EventType { return EventTypeCardDrawn }
func (e CardDrawnEvent) Timestamp() time.Time { return e.timestamp }

// CardDiscardedEvent is published when a player discards and the turn passes
type CardDiscardedEvent struct {
	PlayerID     string
	Card         cards.Card
	NextPlayerID string
	TurnCount    int
	timestamp    time.Time
}

func (e CardDiscardedEvent) EventType() EventType { return EventTypeCardDiscarded }
func (e CardDiscardedEvent) Timestamp() time.Time { return e.timestamp }

// MeldExposedEvent is published when a player lays down a meld
type MeldExposedEvent struct {
	PlayerID  string
	Meld      Meld
	timestamp time.Time
}

func (e MeldExposedEvent) EventType() EventType { return EventTypeMeldExposed }
func (e MeldExposedEvent) Timestamp() time.Time { return e.timestamp }

// HandArrangedEvent is published when a player reorders or auto-arranges their hand
type HandArrangedEvent struct {
	PlayerID  string
	Auto      bool
	timestamp time.Time
}

func (e HandArrangedEvent) EventType() EventType { return EventTypeHandArranged }
func (e HandArrangedEvent) Timestamp() time.Time { return e.timestamp }

// End reasons carried by GameEndEvent
const (
	EndReasonEmptyHand = "empty_hand"
	EndReasonShowdown  = "showdown"
)

// GameEndEvent is published when a winner has been decided
type GameEndEvent struct {
	GameID    string
	WinnerID  string
	Reason    string
	Points    map[string]int // deadwood points left in each hand
	timestamp time.Time
}

func (e GameEndEvent) EventType() EventType { return EventTypeGameEnd }
func (e GameEndEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives published events. OnEvent runs on the goroutine
// that performed the action and must not call back into mutating Game methods.
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(GameEvent)

func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber) (unsubscribe func())
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]EventSubscriber
	order       []int
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{subscribers: make(map[int]EventSubscriber)}
}

// Subscribe adds a subscriber and returns a function that removes it
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) func() {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	id := bus.nextID
	bus.nextID++
	bus.subscribers[id] = subscriber
	bus.order = append(bus.order, id)

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		delete(bus.subscribers, id)
		for i, o := range bus.order {
			if o == id {
				bus.order = append(bus.order[:i], bus.order[i+1:]...)
				break
			}
		}
	}
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, 0, len(bus.order))
	for _, id := range bus.order {
		subs = append(subs, bus.subscribers[id])
	}
	bus.mu.RUnlock()

	for _, s := range subs {
		s.OnEvent(event)
	}
}
