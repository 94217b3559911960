package game

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// TurnTimer plays a turn on a player's behalf when they sit idle for too
// long: it draws if they have not drawn yet and then discards the last card in
// their hand. It only ever uses the public Game operations, so it is bound by
// the same rules as any other caller.
type TurnTimer struct {
	game    *Game
	clock   quartz.Clock
	timeout time.Duration
	logger  *log.Logger

	mu          sync.Mutex
	timer       *quartz.Timer
	armed       turnKey
	unsubscribe func()
}

type turnKey struct {
	playerID string
	turn     int
}

// NewTurnTimer attaches a timer to g. It arms on game start and after every
// discard, and stops when the game ends.
func NewTurnTimer(g *Game, clock quartz.Clock, timeout time.Duration, logger *log.Logger) *TurnTimer {
	t := &TurnTimer{
		game:    g,
		clock:   clock,
		timeout: timeout,
		logger:  logger.WithPrefix("timer").With("game", g.ID()),
	}
	t.unsubscribe = g.Events().Subscribe(t)

	if s := g.Snapshot(); s.Phase == PhasePlaying {
		t.arm(turnKey{playerID: s.CurrentPlayerID, turn: s.TurnCount})
	}
	return t
}

// OnEvent implements EventSubscriber.
func (t *TurnTimer) OnEvent(event GameEvent) {
	switch e := event.(type) {
	case GameStartEvent:
		t.arm(turnKey{playerID: e.PlayerIDs[0], turn: 0})
	case CardDiscardedEvent:
		t.arm(turnKey{playerID: e.NextPlayerID, turn: e.TurnCount})
	case GameEndEvent:
		t.disarm()
	}
}

// Close stops the timer and detaches it from the game.
func (t *TurnTimer) Close() {
	t.unsubscribe()
	t.disarm()
}

func (t *TurnTimer) arm(key turnKey) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.armed = key
	t.timer = t.clock.AfterFunc(t.timeout, func() { t.expire(key) }, "turn")
}

func (t *TurnTimer) disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.armed = turnKey{}
}

func (t *TurnTimer) expire(key turnKey) {
	t.mu.Lock()
	stale := t.armed != key
	t.mu.Unlock()
	if stale {
		return
	}

	s := t.game.Snapshot()
	if s.Phase != PhasePlaying || s.CurrentPlayerID != key.playerID || s.TurnCount != key.turn {
		return
	}

	t.logger.Info("Turn timed out", "player", key.playerID, "turn", key.turn, "drawn", s.HasDrawn)

	if !s.HasDrawn {
		if err := t.game.Draw(key.playerID); err != nil {
			if !errors.Is(err, ErrEmptyDeck) {
				t.logger.Warn("Timed out draw failed", "player", key.playerID, "error", err)
			}
			return
		}
	}

	p, ok := t.game.Snapshot().Player(key.playerID)
	if !ok || len(p.Hand) == 0 {
		return
	}
	last := p.Hand[len(p.Hand)-1]
	if err := t.game.Discard(key.playerID, last.ID()); err != nil {
		t.logger.Warn("Timed out discard failed", "player", key.playerID, "error", err)
	}
}
