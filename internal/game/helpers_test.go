package game

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/lox/tongits/cards"
	"github.com/lox/tongits/internal/randutil"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// riggedState seats DefaultSeats, gives the first len(hands) players exactly
// the listed cards and stacks every other card in the deck in NewDeck order,
// so the top of the deck is the highest remaining spade.
func riggedState(t *testing.T, hands ...[]string) State {
	t.Helper()

	s := NewState(DefaultSeats())
	var used cards.CardSet
	for i, ids := range hands {
		hand, err := cards.ParseCards(ids)
		require.NoError(t, err)
		for _, c := range hand {
			require.False(t, used.Contains(c), "card %s rigged twice", c.ID())
			used.Add(c)
		}
		s.Players[i].Hand = hand
	}
	for _, c := range cards.NewDeck() {
		if !used.Contains(c) {
			s.Deck = append(s.Deck, c)
		}
	}
	s.Phase = PhasePlaying
	require.NoError(t, Validate(s))
	return s
}

// exhaustDeck turns the whole deck face up on the discard pile, leaving the
// state ready for a showdown.
func exhaustDeck(s State) State {
	s = s.Clone()
	s.DiscardPile = append(s.DiscardPile, s.Deck...)
	s.Deck = nil
	return s
}

func mustApply(t *testing.T, s State, a Action) State {
	t.Helper()
	next, err := Apply(s, a)
	require.NoError(t, err, "action %s", a.Name())
	require.NoError(t, Validate(next), "invariants after %s", a.Name())
	return next
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "expected *ActionError, got %T: %v", err, err)
	require.Equal(t, kind, got, "error: %v", err)
}

func newTestGame(t *testing.T, seed int64, opts ...Option) *Game {
	t.Helper()
	return New("test-game", DefaultSeats(), randutil.New(seed), quietLogger(), opts...)
}

// eventRecorder collects published events for assertions. Timer callbacks
// publish from their own goroutine, so access is locked.
type eventRecorder struct {
	mu     sync.Mutex
	events []GameEvent
}

func (r *eventRecorder) OnEvent(e GameEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) all() []GameEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]GameEvent(nil), r.events...)
}

func (r *eventRecorder) types() []EventType {
	events := r.all()
	out := make([]EventType, len(events))
	for i, e := range events {
		out[i] = e.EventType()
	}
	return out
}

func (r *eventRecorder) count(typ EventType) int {
	n := 0
	for _, e := range r.all() {
		if e.EventType() == typ {
			n++
		}
	}
	return n
}
