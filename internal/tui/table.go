package tui

import (
	"sync"

	"github.com/lox/tongits/internal/game"
)

// Table is the seat the TUI plays: a game in this process or a seat on a
// remote server. Updates signals that View may have changed; signals
// coalesce, so the model always re-reads View.
type Table interface {
	PlayerID() string
	View() game.PlayerView
	Updates() <-chan struct{}
	Done() <-chan struct{}

	Start() error
	Draw() error
	Discard(cardID string) error
	Meld(cardIDs []string) error
	Reorder(cardIDs []string) error
	Arrange() error
	Showdown() error
	Close() error
}

// LocalTable adapts an in-process game to Table for one seat.
type LocalTable struct {
	game     *game.Game
	playerID string

	updates     chan struct{}
	done        chan struct{}
	unsubscribe func()
	closeOnce   sync.Once
}

// NewLocalTable seats playerID at g. Events from anyone, including a turn
// timer, wake the TUI.
func NewLocalTable(g *game.Game, playerID string) *LocalTable {
	t := &LocalTable{
		game:     g,
		playerID: playerID,
		updates:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	t.unsubscribe = g.Events().Subscribe(game.EventSubscriberFunc(func(game.GameEvent) {
		select {
		case t.updates <- struct{}{}:
		default:
		}
	}))
	return t
}

func (t *LocalTable) PlayerID() string         { return t.playerID }
func (t *LocalTable) View() game.PlayerView    { return t.game.View(t.playerID) }
func (t *LocalTable) Updates() <-chan struct{} { return t.updates }
func (t *LocalTable) Done() <-chan struct{}    { return t.done }

func (t *LocalTable) Draw() error                    { return t.game.Draw(t.playerID) }
func (t *LocalTable) Discard(cardID string) error    { return t.game.Discard(t.playerID, cardID) }
func (t *LocalTable) Meld(cardIDs []string) error    { return t.game.Meld(t.playerID, cardIDs) }
func (t *LocalTable) Reorder(cardIDs []string) error { return t.game.ReorderHand(t.playerID, cardIDs) }
func (t *LocalTable) Arrange() error                 { return t.game.AutoArrangeHand(t.playerID) }

// Start deals a new game. Only a seated player may restart the table.
func (t *LocalTable) Start() error {
	if t.playerID == "" {
		return game.SpectatorError()
	}
	return t.game.Start()
}

// Showdown ends the game by points once the deck is exhausted.
func (t *LocalTable) Showdown() error {
	if t.playerID == "" {
		return game.SpectatorError()
	}
	return t.game.Showdown()
}

// Close stops listening to the game. The game itself is left running.
func (t *LocalTable) Close() error {
	t.closeOnce.Do(func() {
		t.unsubscribe()
		close(t.done)
	})
	return nil
}
