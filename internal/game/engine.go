package game

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/tongits/cards"
)

// Game owns one game's state and is the only way to change it. Every method
// takes the game lock, so actions from any number of goroutines are applied
// one at a time, and each either commits a whole new state or nothing.
type Game struct {
	id     string
	rng    cards.Source
	logger *log.Logger
	clock  quartz.Clock
	bus    *SimpleEventBus

	cardsPerPlayer int
	autoShowdown   bool

	mu    sync.Mutex
	state State

	// pubMu keeps events in commit order once mu has been released.
	pubMu sync.Mutex
}

// Option configures a Game.
type Option func(*Game)

// WithCardsPerPlayer overrides the deal size for non-dealers.
func WithCardsPerPlayer(n int) Option {
	return func(g *Game) { g.cardsPerPlayer = n }
}

// WithAutoShowdown controls whether a draw from an empty deck resolves the
// showdown immediately. It is on by default.
func WithAutoShowdown(enabled bool) Option {
	return func(g *Game) { g.autoShowdown = enabled }
}

// WithClock sets the clock used for event timestamps.
func WithClock(clock quartz.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// New creates a game in the waiting phase. The rng is required so shuffles
// are always explicit and replayable.
func New(id string, seats []Seat, rng cards.Source, logger *log.Logger, opts ...Option) *Game {
	if rng == nil {
		panic("rng is required for game creation")
	}
	if len(seats) == 0 {
		panic("at least one seat required")
	}

	g := &Game{
		id:             id,
		rng:            rng,
		logger:         logger.WithPrefix("game").With("game", id),
		clock:          quartz.NewReal(),
		bus:            NewEventBus(),
		cardsPerPlayer: cards.DefaultCardsPerPlayer,
		autoShowdown:   true,
		state:          NewState(seats),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ID returns the game id.
func (g *Game) ID() string { return g.id }

// Events returns the bus game events are published on.
func (g *Game) Events() EventBus { return g.bus }

// Snapshot returns a deep copy of the current state.
func (g *Game) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Clone()
}

// View returns the current state as seen by one player.
func (g *Game) View(playerID string) PlayerView {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.ViewFor(g.id, playerID)
}

// Start shuffles a fresh deck and deals a new game, discarding any previous one.
func (g *Game) Start() error {
	return g.dispatch(func(s State) Action {
		return Start{Deck: cards.Shuffle(cards.NewDeck(), g.rng), CardsPerPlayer: g.cardsPerPlayer}
	}, func(prev, next State) []GameEvent {
		ids := make([]string, len(next.Players))
		for i, p := range next.Players {
			ids[i] = p.ID
		}
		g.logger.Info("Game started", "players", len(ids), "deck", len(next.Deck))
		return []GameEvent{GameStartEvent{GameID: g.id, PlayerIDs: ids, DeckCount: len(next.Deck), timestamp: g.clock.Now()}}
	})
}

// Draw takes the top card of the deck for the current player. When the deck
// is empty nothing is drawn and ErrEmptyDeck is returned; with auto showdown
// enabled the game is decided by points under the same lock before Draw
// returns, so no other action can come between the failed draw and the
// showdown.
func (g *Game) Draw(playerID string) error {
	var exhausted error
	err := g.dispatch(func(s State) Action {
		if g.autoShowdown && s.Phase == PhasePlaying && s.CurrentPlayerID == playerID && len(s.Deck) == 0 {
			g.logger.Info("Deck exhausted, resolving showdown", "player", playerID)
			exhausted = actionErr(KindEmptyDeck, playerID, "")
			return Showdown{}
		}
		return Draw{PlayerID: playerID}
	}, func(prev, next State) []GameEvent {
		if exhausted != nil {
			return nil
		}
		p := next.Players[next.PlayerIndex(playerID)]
		card := p.Hand[len(p.Hand)-1]
		g.logger.Debug("Card drawn", "player", playerID, "deck", len(next.Deck))
		return []GameEvent{CardDrawnEvent{PlayerID: playerID, Card: card, DeckCount: len(next.Deck), timestamp: g.clock.Now()}}
	})
	if err != nil {
		return err
	}
	return exhausted
}

// Discard discards a card for the current player and passes the turn.
func (g *Game) Discard(playerID, cardID string) error {
	return g.dispatch(func(State) Action { return Discard{PlayerID: playerID, CardID: cardID} },
		func(prev, next State) []GameEvent {
			card, _ := next.TopDiscard()
			g.logger.Debug("Card discarded", "player", playerID, "card", cardID, "next", next.CurrentPlayerID)
			return []GameEvent{CardDiscardedEvent{
				PlayerID:     playerID,
				Card:         card,
				NextPlayerID: next.CurrentPlayerID,
				TurnCount:    next.TurnCount,
				timestamp:    g.clock.Now(),
			}}
		})
}

// Meld exposes the given cards from the current player's hand.
func (g *Game) Meld(playerID string, cardIDs []string) error {
	return g.dispatch(func(State) Action { return MeldCards{PlayerID: playerID, CardIDs: cardIDs} },
		func(prev, next State) []GameEvent {
			p := next.Players[next.PlayerIndex(playerID)]
			m := p.ExposedMelds[len(p.ExposedMelds)-1]
			g.logger.Debug("Meld exposed", "player", playerID, "meld", m.ID, "type", m.Type, "cards", cards.FormatCards(m.Cards))
			return []GameEvent{MeldExposedEvent{PlayerID: playerID, Meld: m, timestamp: g.clock.Now()}}
		})
}

// ReorderHand rearranges a player's hand without changing its cards.
func (g *Game) ReorderHand(playerID string, cardIDs []string) error {
	return g.dispatch(func(State) Action { return Reorder{PlayerID: playerID, CardIDs: cardIDs} },
		func(prev, next State) []GameEvent {
			return []GameEvent{HandArrangedEvent{PlayerID: playerID, timestamp: g.clock.Now()}}
		})
}

// AutoArrangeHand groups a player's hand into melds followed by deadwood.
func (g *Game) AutoArrangeHand(playerID string) error {
	return g.dispatch(func(State) Action { return AutoArrange{PlayerID: playerID} },
		func(prev, next State) []GameEvent {
			return []GameEvent{HandArrangedEvent{PlayerID: playerID, Auto: true, timestamp: g.clock.Now()}}
		})
}

// Showdown ends the game by comparing deadwood points. The deck must be
// exhausted.
func (g *Game) Showdown() error {
	return g.dispatch(func(State) Action { return Showdown{} }, nil)
}

// dispatch builds an action from the current state, applies it and commits
// the result. Events are published after the state lock is released so
// subscribers may read the game, but before any later action's events.
func (g *Game) dispatch(build func(State) Action, describe func(prev, next State) []GameEvent) error {
	g.mu.Lock()
	prev := g.state
	action := build(prev)
	next, err := Apply(prev, action)
	if err != nil {
		g.mu.Unlock()
		g.logger.Warn("Action rejected", "action", action.Name(), "error", err)
		return err
	}
	g.state = next

	var events []GameEvent
	if describe != nil {
		events = describe(prev, next)
	}
	if prev.Phase == PhasePlaying && next.Phase == PhaseEnded {
		events = append(events, g.endEvent(action, next))
	}

	g.pubMu.Lock()
	g.mu.Unlock()
	defer g.pubMu.Unlock()
	for _, e := range events {
		g.bus.Publish(e)
	}
	return nil
}

func (g *Game) endEvent(action Action, s State) GameEndEvent {
	reason := EndReasonEmptyHand
	if _, ok := action.(Showdown); ok {
		reason = EndReasonShowdown
	}
	points := make(map[string]int, len(s.Players))
	for _, p := range s.Players {
		points[p.ID] = cards.Points(p.Hand)
	}
	g.logger.Info("Game over", "winner", s.WinnerID, "reason", reason, "turns", s.TurnCount)
	return GameEndEvent{GameID: g.id, WinnerID: s.WinnerID, Reason: reason, Points: points, timestamp: g.clock.Now()}
}
